package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
)

type QuoteClient struct {
	http    *http.Client
	baseURL string
}

func NewQuoteClient(httpClient *http.Client, baseURL string) *QuoteClient {
	return &QuoteClient{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type quoteDTO struct {
	Pair      string  `json:"par_moedas"`
	Value     float64 `json:"valor"`
	UpdatedAt string  `json:"atualizado_em"`
}

// FetchQuotes fetches the current quote list and reshapes it into a rate
// snapshot keyed by currency pair. A snapshot missing any required pair, or
// carrying a non-positive value, is rejected rather than defaulted.
func (c *QuoteClient) FetchQuotes(ctx context.Context) (domain.RateSnapshot, error) {
	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/cotacoes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quotes request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing quotes request: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		return nil, fmt.Errorf("quotes request failed: %w", err)
	}

	var body []quoteDTO
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode quotes response: %v", domain.ErrData, err)
	}

	snapshot := make(domain.RateSnapshot, len(body))
	for _, q := range body {
		observedAt, tsErr := parseTimestamp(q.UpdatedAt)
		if tsErr != nil {
			return nil, fmt.Errorf("quote %q: %w", q.Pair, tsErr)
		}
		snapshot[q.Pair] = domain.Quote{
			Value:      decimal.NewFromFloat(q.Value),
			ObservedAt: observedAt,
		}
	}

	if err = snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("quotes response incomplete: %w", err)
	}
	return snapshot, nil
}
