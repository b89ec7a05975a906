package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
)

type TransactionClient struct {
	http    *http.Client
	baseURL string
}

func NewTransactionClient(httpClient *http.Client, baseURL string) *TransactionClient {
	return &TransactionClient{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type createTransactionDTO struct {
	Amount              float64 `json:"valor"`
	SourceCurrency      string  `json:"moeda_origem"`
	DestinationCurrency string  `json:"moeda_destino"`
	FeeRate             float64 `json:"taxa_conversao"`
	ConvertedAmount     float64 `json:"valor_convertido"`
	DestinationKey      string  `json:"chave_destino"`
}

type createTransactionResponse struct {
	Code string `json:"codigo_transacao"`
}

type transactionDTO struct {
	Code                string  `json:"codigo_transacao"`
	Status              string  `json:"status"`
	Amount              float64 `json:"valor"`
	ConvertedAmount     float64 `json:"valor_convertido"`
	FeeRate             float64 `json:"taxa_conversao"`
	SourceCurrency      string  `json:"moeda_origem"`
	DestinationCurrency string  `json:"moeda_destino"`
	DestinationKey      string  `json:"chave_destino"`
	CreatedAt           string  `json:"criado_em"`
	UpdatedAt           *string `json:"atualizado_em"`
}

// Create posts a conversion request and returns the transaction identifier
// assigned by the remote service. The response body is not assumed to carry
// diagnostic detail on failure.
func (c *TransactionClient) Create(ctx context.Context, txReq domain.TransactionRequest) (string, error) {
	payload, err := json.Marshal(createTransactionDTO{
		Amount:              txReq.Amount.InexactFloat64(),
		SourceCurrency:      txReq.SourceCurrency,
		DestinationCurrency: txReq.DestinationCurrency,
		FeeRate:             txReq.FeeRate.InexactFloat64(),
		ConvertedAmount:     txReq.ConvertedAmount.InexactFloat64(),
		DestinationKey:      txReq.DestinationKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, c.baseURL+"/transacoes", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create transaction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: executing transaction request: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		return "", fmt.Errorf("transaction create failed: %w", err)
	}

	var body createTransactionResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode transaction response: %v", domain.ErrData, err)
	}
	if body.Code == "" {
		return "", fmt.Errorf("%w: transaction response missing codigo_transacao", domain.ErrData)
	}
	return body.Code, nil
}

// Get fetches the current record for a transaction identifier.
func (c *TransactionClient) Get(ctx context.Context, id string) (domain.Transaction, error) {
	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/transacoes/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to create transaction request for %q: %w", id, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: executing transaction request for %q: %v", domain.ErrNetwork, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Transaction{}, fmt.Errorf("transaction %q: %w", id, domain.ErrTransactionNotFound)
	}
	if err = checkStatus(resp); err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction get for %q failed: %w", id, err)
	}

	var body transactionDTO
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: failed to decode transaction %q: %v", domain.ErrData, id, err)
	}
	return body.toDomain(id)
}

func (dto transactionDTO) toDomain(id string) (domain.Transaction, error) {
	status, err := domain.StatusFromWire(dto.Status)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %q: %w", id, err)
	}

	createdAt, err := parseTimestamp(dto.CreatedAt)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %q criado_em: %w", id, err)
	}

	tx := domain.Transaction{
		ID:                  dto.Code,
		Status:              status,
		Amount:              decimal.NewFromFloat(dto.Amount),
		ConvertedAmount:     decimal.NewFromFloat(dto.ConvertedAmount),
		FeeRate:             decimal.NewFromFloat(dto.FeeRate),
		SourceCurrency:      dto.SourceCurrency,
		DestinationCurrency: dto.DestinationCurrency,
		DestinationKey:      dto.DestinationKey,
		CreatedAt:           createdAt,
	}
	if tx.ID == "" {
		tx.ID = id
	}
	if dto.UpdatedAt != nil && *dto.UpdatedAt != "" {
		updatedAt, tsErr := parseTimestamp(*dto.UpdatedAt)
		if tsErr != nil {
			return domain.Transaction{}, fmt.Errorf("transaction %q atualizado_em: %w", id, tsErr)
		}
		tx.UpdatedAt = &updatedAt
	}
	return tx, nil
}
