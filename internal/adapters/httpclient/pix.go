package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"eternalpay/internal/domain"
)

type PixClient struct {
	http    *http.Client
	baseURL string
}

func NewPixClient(httpClient *http.Client, baseURL string) *PixClient {
	return &PixClient{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type brcodeResponse struct {
	BRCode string `json:"brcode"`
}

// FetchBRCode fetches the copyable text code for a Pix charge. Its failure
// never blocks display of the QR image; the caller treats the two as
// independent failure domains.
func (c *PixClient) FetchBRCode(ctx context.Context, pixReq domain.PixRequest) (string, error) {
	params := url.Values{}
	params.Set("nome", pixReq.Merchant.Name)
	params.Set("cidade", pixReq.Merchant.City)
	params.Set("valor", pixReq.Amount.StringFixed(domain.FiatScale))
	params.Set("chave", pixReq.Merchant.Key)
	params.Set("txid", pixReq.TxID)

	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/pix/brcode?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create brcode request for %q: %w", pixReq.TxID, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: executing brcode request for %q: %v", domain.ErrNetwork, pixReq.TxID, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		return "", fmt.Errorf("brcode request for %q failed: %w", pixReq.TxID, err)
	}

	var body brcodeResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode brcode response for %q: %v", domain.ErrData, pixReq.TxID, err)
	}
	if body.BRCode == "" {
		return "", fmt.Errorf("%w: brcode response empty for %q", domain.ErrData, pixReq.TxID)
	}
	return body.BRCode, nil
}
