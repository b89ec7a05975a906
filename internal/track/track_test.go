package track

import (
	"context"
	"sync"
	"time"

	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTransactionClient struct {
	mock.Mock
}

func (m *MockTransactionClient) Create(ctx context.Context, req domain.TransactionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionClient) Get(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

type MockBRCodeClient struct {
	mock.Mock
}

func (m *MockBRCodeClient) FetchBRCode(ctx context.Context, req domain.PixRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// mapCache is a synchronous stand-in for the ristretto-backed cache; tests
// need deterministic visibility of writes.
type mapCache struct {
	mu sync.Mutex
	m  map[string]domain.PixArtifact
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string]domain.PixArtifact)}
}

func (c *mapCache) Get(txID string) (domain.PixArtifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.m[txID]
	return a, ok
}

func (c *mapCache) Set(txID string, artifact domain.PixArtifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[txID] = artifact
}

func (c *mapCache) Close() {}

func merchantFixture() domain.PixMerchant {
	return domain.PixMerchant{
		Name: "EternalPay",
		City: "SaoPaulo",
		Key:  "20253e05-7207-40b5-9386-cc5655448829",
	}
}

func transactionFixture(status domain.TransactionStatus) domain.Transaction {
	created := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	tx := domain.Transaction{
		ID:                  "TX123",
		Status:              status,
		Amount:              decimal.RequireFromString("500.00"),
		ConvertedAmount:     decimal.RequireFromString("0.00140000"),
		FeeRate:             decimal.RequireFromString("0.02"),
		SourceCurrency:      domain.CurrencyBRL,
		DestinationCurrency: domain.CurrencyBTC,
		DestinationKey:      "ln1abc",
		CreatedAt:           created,
	}
	if status != domain.StatusPending {
		updated := created.Add(5 * time.Minute)
		tx.UpdatedAt = &updated
	}
	return tx
}
