package adapters

import (
	"context"

	"eternalpay/internal/domain"
)

type QuoteClient interface {
	FetchQuotes(ctx context.Context) (domain.RateSnapshot, error)
}

type TransactionClient interface {
	Create(ctx context.Context, req domain.TransactionRequest) (string, error)
	Get(ctx context.Context, id string) (domain.Transaction, error)
}

type BRCodeClient interface {
	FetchBRCode(ctx context.Context, req domain.PixRequest) (string, error)
}

type ArtifactCache interface {
	Get(txID string) (domain.PixArtifact, bool)
	Set(txID string, artifact domain.PixArtifact)
	Close()
}
