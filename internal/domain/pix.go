package domain

import "github.com/shopspring/decimal"

// PixMerchant is the fixed receiving identity embedded in every Pix charge.
type PixMerchant struct {
	Name string
	City string
	Key  string
}

// PixRequest carries the parameters of one Pix charge: the transaction
// amount, the merchant identity and the transaction id as reference token.
type PixRequest struct {
	Merchant PixMerchant
	Amount   decimal.Decimal
	TxID     string
}

// PixArtifact is derived for pending fiat-to-crypto transactions. The QR
// image URL is constructed deterministically; the copyable text code is
// fetched separately and may be absent when that fetch failed.
type PixArtifact struct {
	QRImageURL string
	BRCode     string
	Amount     decimal.Decimal
}

// HasCode reports whether the textual payment code arrived. Copying is only
// enabled once it did.
func (a PixArtifact) HasCode() bool { return a.BRCode != "" }
