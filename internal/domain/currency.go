package domain

import "github.com/shopspring/decimal"

const (
	CurrencyBRL = "BRL"
	CurrencyBTC = "BTC"
	CurrencyUSD = "USD"
)

const (
	// FiatScale is the number of fractional digits carried by fiat amounts.
	FiatScale = 2
	// CryptoScale is the number of fractional digits carried by crypto amounts.
	CryptoScale = 8
)

// Direction says which leg of the conversion the user pays with.
type Direction string

const (
	FiatToCrypto Direction = "FIAT_TO_CRYPTO"
	CryptoToFiat Direction = "CRYPTO_TO_FIAT"
)

func (d Direction) Source() string {
	if d == CryptoToFiat {
		return CurrencyBTC
	}
	return CurrencyBRL
}

func (d Direction) Destination() string {
	if d == CryptoToFiat {
		return CurrencyBRL
	}
	return CurrencyBTC
}

func (d Direction) Toggled() Direction {
	if d == CryptoToFiat {
		return FiatToCrypto
	}
	return CryptoToFiat
}

// RoundFiat rounds to fiat precision (2 fractional digits).
func RoundFiat(v decimal.Decimal) decimal.Decimal { return v.Round(FiatScale) }

// RoundCrypto rounds to crypto precision (8 fractional digits).
func RoundCrypto(v decimal.Decimal) decimal.Decimal { return v.Round(CryptoScale) }
