// Package httpclient holds the wire clients for the remote pricing and
// transaction service. Every request asks for fresh data (intermediary
// caching disabled) and declares the accepted content type; non-2xx
// responses always fail loudly.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"eternalpay/internal/domain"
)

// The service emits ISO8601 timestamps, sometimes without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", domain.ErrData, raw)
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %s", domain.ErrProtocol, resp.Status)
	}
	return nil
}
