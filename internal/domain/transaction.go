package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusCancelled  TransactionStatus = "cancelled"
)

// Terminal reports whether no further transition or polling happens after
// this status.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Wire vocabulary used by the remote service.
const (
	wireStatusPending    = "pendente"
	wireStatusProcessing = "processando"
	wireStatusCompleted  = "concluida"
	wireStatusCancelled  = "cancelado"
)

func StatusFromWire(raw string) (TransactionStatus, error) {
	switch raw {
	case wireStatusPending:
		return StatusPending, nil
	case wireStatusProcessing:
		return StatusProcessing, nil
	case wireStatusCompleted:
		return StatusCompleted, nil
	case wireStatusCancelled:
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", ErrData, raw)
	}
}

// TransactionRequest is produced once by the conversion engine at submission
// time and is immutable from then on.
type TransactionRequest struct {
	Amount              decimal.Decimal
	SourceCurrency      string
	DestinationCurrency string
	FeeRate             decimal.Decimal
	ConvertedAmount     decimal.Decimal
	DestinationKey      string
}

// Transaction is the server-owned record. The client only observes it via
// polling and never mutates it directly.
type Transaction struct {
	ID                  string
	Status              TransactionStatus
	Amount              decimal.Decimal
	ConvertedAmount     decimal.Decimal
	FeeRate             decimal.Decimal
	SourceCurrency      string
	DestinationCurrency string
	DestinationKey      string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// WantsPixArtifact reports whether this observation should trigger payment
// artifact generation: a pending fiat-to-crypto transaction.
func (t Transaction) WantsPixArtifact() bool {
	return t.Status == StatusPending &&
		t.SourceCurrency == CurrencyBRL &&
		t.DestinationCurrency == CurrencyBTC
}
