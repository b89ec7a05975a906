package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency pairs advertised by the quotes endpoint.
const (
	PairBTCBRL = "BTC/BRL"
	PairBTCUSD = "BTC/USD"
	PairUSDBRL = "USD/BRL"
)

// RequiredPairs must all be present and positive for a snapshot to be usable
// by the conversion engine.
var RequiredPairs = []string{PairBTCBRL, PairBTCUSD, PairUSDBRL}

type Quote struct {
	Value      decimal.Decimal
	ObservedAt time.Time
}

// RateSnapshot maps a currency pair to its latest quote. Snapshots are
// replaced wholesale on each successful fetch, never partially merged.
type RateSnapshot map[string]Quote

// Validate rejects a snapshot missing any required pair or carrying a
// non-positive value. A bad snapshot is never silently defaulted.
func (s RateSnapshot) Validate() error {
	for _, pair := range RequiredPairs {
		q, ok := s[pair]
		if !ok {
			return fmt.Errorf("%w: pair %q missing from snapshot", ErrData, pair)
		}
		if !q.Value.IsPositive() {
			return fmt.Errorf("%w: pair %q has non-positive value %s", ErrData, pair, q.Value)
		}
	}
	return nil
}

// ConversionRate returns the BTC/BRL value driving amount conversion.
func (s RateSnapshot) ConversionRate() (decimal.Decimal, bool) {
	q, ok := s[PairBTCBRL]
	if !ok || !q.Value.IsPositive() {
		return decimal.Zero, false
	}
	return q.Value, true
}
