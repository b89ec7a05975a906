package convert

import (
	"fmt"
	"time"

	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
)

type RateView struct {
	Pair       string
	Value      decimal.Decimal
	ObservedAt time.Time
}

// View is the one-way projection of the engine state for rendering. It is a
// value copy; mutating it does not touch the engine.
type View struct {
	Direction           domain.Direction
	SourceCurrency      string
	DestinationCurrency string
	FiatAmount          decimal.Decimal
	CryptoAmount        decimal.Decimal
	FeeRate             decimal.Decimal
	Fee                 *decimal.Decimal
	Net                 *decimal.Decimal
	DestinationKey      string
	KeyError            string
	BoundsError         string
	CanSubmit           bool
	SubmitInFlight      bool
	RatesErrored        bool
	Rates               []RateView
}

func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		Direction:           e.direction,
		SourceCurrency:      e.direction.Source(),
		DestinationCurrency: e.direction.Destination(),
		FiatAmount:          e.fiatAmount,
		CryptoAmount:        e.cryptoAmount,
		FeeRate:             e.feeRate,
		DestinationKey:      e.destKey,
		SubmitInFlight:      e.submitting,
		RatesErrored:        e.ratesErrored,
		CanSubmit:           e.eligibility() == nil,
	}

	if fee, net, ok := e.feeBreakdown(); ok {
		v.Fee = &fee
		v.Net = &net
	}

	if e.keyErr != nil {
		v.KeyError = e.keyErr.Error()
	}

	if fiatEq, ok := e.fiatEquivalent(); ok && fiatEq.IsPositive() {
		if fiatEq.LessThan(e.minFiat) || fiatEq.GreaterThan(e.maxFiat) {
			v.BoundsError = fmt.Sprintf("fiat amount must be between %s and %s %s",
				e.minFiat.StringFixed(domain.FiatScale),
				e.maxFiat.StringFixed(domain.FiatScale),
				domain.CurrencyBRL)
		}
	}

	for _, pair := range domain.RequiredPairs {
		if q, ok := e.snapshot[pair]; ok {
			v.Rates = append(v.Rates, RateView{Pair: pair, Value: q.Value, ObservedAt: q.ObservedAt})
		}
	}
	return v
}
