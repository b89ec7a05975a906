package convert

import (
	"context"
	"errors"
	"time"

	"eternalpay/internal/adapters"
	"eternalpay/internal/domain"

	"github.com/sethvargo/go-retry"
)

// Up to 3 attempts total, exponential backoff doubling from the base delay
// (1s, 2s).
const (
	fetchRetries     = 2
	defaultBaseDelay = time.Second
)

// Fetcher wraps the quote client with bounded retry. Transport and protocol
// failures are retried; a malformed payload is surfaced immediately since a
// retry would fetch the same bad data.
type Fetcher struct {
	client    adapters.QuoteClient
	baseDelay time.Duration
}

func NewFetcher(client adapters.QuoteClient, baseDelay time.Duration) *Fetcher {
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &Fetcher{client: client, baseDelay: baseDelay}
}

func (f *Fetcher) Fetch(ctx context.Context) (domain.RateSnapshot, error) {
	var snapshot domain.RateSnapshot

	backoff := retry.WithMaxRetries(fetchRetries, retry.NewExponential(f.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, fetchErr := f.client.FetchQuotes(ctx)
		if fetchErr != nil {
			if errors.Is(fetchErr, domain.ErrNetwork) || errors.Is(fetchErr, domain.ErrProtocol) {
				return retry.RetryableError(fetchErr)
			}
			return fetchErr
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
