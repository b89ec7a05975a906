package track

import (
	"context"
	"net/url"

	"eternalpay/internal/adapters"
	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PixService derives the payment artifact for a pending fiat-to-crypto
// transaction: a deterministic QR image URL plus the copyable text code
// fetched from the remote service. The two are independent failure domains;
// a missing text code never blocks the QR image.
type PixService struct {
	client    adapters.BRCodeClient
	cache     adapters.ArtifactCache
	merchant  domain.PixMerchant
	qrBaseURL string
}

func NewPixService(client adapters.BRCodeClient, cache adapters.ArtifactCache, merchant domain.PixMerchant, qrBaseURL string) *PixService {
	return &PixService{client: client, cache: cache, merchant: merchant, qrBaseURL: qrBaseURL}
}

// ArtifactFor returns the artifact for a pending observation, generating it
// when absent or expired. An artifact without a text code is not cached, so
// the code fetch is retried on the next pending observation.
func (p *PixService) ArtifactFor(ctx context.Context, tx domain.Transaction) domain.PixArtifact {
	if artifact, ok := p.cache.Get(tx.ID); ok {
		return artifact
	}

	amount := domain.RoundFiat(tx.Amount)
	artifact := domain.PixArtifact{
		QRImageURL: p.qrImageURL(tx.ID, amount),
		Amount:     amount,
	}

	code, err := p.client.FetchBRCode(ctx, domain.PixRequest{
		Merchant: p.merchant,
		Amount:   amount,
		TxID:     tx.ID,
	})
	if err != nil {
		logrus.WithError(err).WithField("transaction_id", tx.ID).
			Warn("BR code fetch failed, QR image remains available")
		return artifact
	}

	artifact.BRCode = code
	p.cache.Set(tx.ID, artifact)
	return artifact
}

func (p *PixService) qrImageURL(txID string, amount decimal.Decimal) string {
	params := url.Values{}
	params.Set("nome", p.merchant.Name)
	params.Set("cidade", p.merchant.City)
	params.Set("valor", amount.StringFixed(domain.FiatScale))
	params.Set("chave", p.merchant.Key)
	params.Set("txid", txID)
	params.Set("saida", "qr")
	return p.qrBaseURL + "?" + params.Encode()
}
