package convert

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrToggleDisabled = errors.New("direction toggle is disabled")

// Options configure one converter session.
type Options struct {
	FeeRate              decimal.Decimal
	MinFiatValue         decimal.Decimal
	MaxFiatValue         decimal.Decimal
	AllowDirectionToggle bool
	Keys                 KeyValidator
}

// Engine owns the conversion state: rates, the paired amount fields, the fee
// breakdown, the destination key and submission gating. Every mutation runs
// under one mutex, so a recomputation triggered by a rate tick cannot overlap
// one triggered by a field edit.
type Engine struct {
	mu sync.Mutex

	feeRate     decimal.Decimal
	minFiat     decimal.Decimal
	maxFiat     decimal.Decimal
	allowToggle bool
	keys        KeyValidator

	direction    domain.Direction
	fiatAmount   decimal.Decimal
	cryptoAmount decimal.Decimal
	snapshot     domain.RateSnapshot
	ratesErrored bool
	destKey      string
	keyErr       error
	submitting   bool
}

func NewEngine(opts Options) *Engine {
	keys := opts.Keys
	if keys == nil {
		keys = LightningPixValidator{}
	}
	return &Engine{
		feeRate:     opts.FeeRate,
		minFiat:     opts.MinFiatValue,
		maxFiat:     opts.MaxFiatValue,
		allowToggle: opts.AllowDirectionToggle,
		keys:        keys,
		direction:   domain.FiatToCrypto,
		keyErr:      ErrKeyRequired,
	}
}

// IngestRates replaces the held snapshot wholesale. When an amount is
// populated on the active side, the paired amount and fee breakdown are
// recomputed without user interaction, so a rate tick mid-edit updates
// totals live.
func (e *Engine) IngestRates(snapshot domain.RateSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// BTC/USD is displayed with fiat precision; the other pairs keep the
	// values the service sent.
	held := make(domain.RateSnapshot, len(snapshot))
	for pair, q := range snapshot {
		if pair == domain.PairBTCUSD {
			q.Value = domain.RoundFiat(q.Value)
		}
		held[pair] = q
	}
	e.snapshot = held
	e.ratesErrored = false
	e.recomputeFromActive()
}

// RateFetchFailed marks the rate display as errored while keeping the last
// good values in place.
func (e *Engine) RateFetchFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ratesErrored = true
}

// SetSourceAmount handles an edit of the active-side amount field. Empty or
// invalid input is treated as zero and clears the paired field.
func (e *Engine) SetSourceAmount(raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := parseAmount(raw)
	if e.direction == domain.FiatToCrypto {
		e.fiatAmount = v
	} else {
		e.cryptoAmount = v
	}
	e.recomputeFromActive()
}

// SetDestinationAmount handles an edit of the inactive-side amount field; the
// edited value drives recomputation of the active side.
func (e *Engine) SetDestinationAmount(raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := parseAmount(raw)
	if e.direction == domain.FiatToCrypto {
		e.cryptoAmount = v
	} else {
		e.fiatAmount = v
	}
	e.recomputeFromInactive()
}

// ToggleDirection swaps which field is the source. Displayed values are
// preserved as-is; the destination key and its validation state reset because
// the expected key format depends on direction. Disabled in the shipped
// configuration.
func (e *Engine) ToggleDirection() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.allowToggle {
		return ErrToggleDisabled
	}
	e.direction = e.direction.Toggled()
	e.destKey = ""
	e.keyErr = e.keys.Validate(e.direction, "")
	return nil
}

// SetDestinationKey stores and validates the key for the current direction.
// It never triggers amount recomputation.
func (e *Engine) SetDestinationKey(raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.destKey = strings.TrimSpace(raw)
	e.keyErr = e.keys.Validate(e.direction, e.destKey)
}

// CanSubmit reports whether a submission would be accepted right now.
func (e *Engine) CanSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eligibility() == nil
}

// --- internals, all called with e.mu held ---

func parseAmount(raw string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func (e *Engine) activeAmount() decimal.Decimal {
	if e.direction == domain.FiatToCrypto {
		return e.fiatAmount
	}
	return e.cryptoAmount
}

// recomputeFromActive derives the inactive side from the active one.
func (e *Engine) recomputeFromActive() {
	rate, ok := e.snapshot.ConversionRate()
	if e.direction == domain.FiatToCrypto {
		if !ok || !e.fiatAmount.IsPositive() {
			e.cryptoAmount = decimal.Zero
			return
		}
		e.cryptoAmount = domain.RoundCrypto(e.fiatAmount.Div(rate))
		return
	}
	if !ok || !e.cryptoAmount.IsPositive() {
		e.fiatAmount = decimal.Zero
		return
	}
	e.fiatAmount = domain.RoundFiat(e.cryptoAmount.Mul(rate))
}

// recomputeFromInactive derives the active side from the inactive one.
func (e *Engine) recomputeFromInactive() {
	rate, ok := e.snapshot.ConversionRate()
	if e.direction == domain.FiatToCrypto {
		if !ok || !e.cryptoAmount.IsPositive() {
			e.fiatAmount = decimal.Zero
			return
		}
		e.fiatAmount = domain.RoundFiat(e.cryptoAmount.Mul(rate))
		return
	}
	if !ok || !e.fiatAmount.IsPositive() {
		e.cryptoAmount = decimal.Zero
		return
	}
	e.cryptoAmount = domain.RoundCrypto(e.fiatAmount.Div(rate))
}

// fiatEquivalent expresses the active amount in fiat terms. The bool is false
// when a crypto-denominated amount cannot be converted for lack of rates.
func (e *Engine) fiatEquivalent() (decimal.Decimal, bool) {
	if e.direction == domain.FiatToCrypto {
		return e.fiatAmount, true
	}
	rate, ok := e.snapshot.ConversionRate()
	if !ok {
		return decimal.Zero, false
	}
	return domain.RoundFiat(e.cryptoAmount.Mul(rate)), true
}

// feeBreakdown computes the fee and net amount, always in fiat terms.
func (e *Engine) feeBreakdown() (fee, net decimal.Decimal, ok bool) {
	fiatEq, ok := e.fiatEquivalent()
	if !ok || !fiatEq.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}
	fee = domain.RoundFiat(fiatEq.Mul(e.feeRate))
	net = domain.RoundFiat(fiatEq.Sub(fee))
	return fee, net, true
}

// eligibility returns nil when submission is allowed, or the blocking
// validation error otherwise.
func (e *Engine) eligibility() error {
	if e.submitting {
		return domain.ErrSubmitInFlight
	}
	if _, ok := e.snapshot.ConversionRate(); !ok {
		return domain.ErrNoRates
	}
	if !e.activeAmount().IsPositive() {
		return fmt.Errorf("%w: amount is required", domain.ErrValidation)
	}
	fiatEq, ok := e.fiatEquivalent()
	if !ok {
		return domain.ErrNoRates
	}
	if fiatEq.LessThan(e.minFiat) || fiatEq.GreaterThan(e.maxFiat) {
		return fmt.Errorf("%w: fiat amount must be between %s and %s %s",
			domain.ErrValidation,
			e.minFiat.StringFixed(domain.FiatScale),
			e.maxFiat.StringFixed(domain.FiatScale),
			domain.CurrencyBRL)
	}
	if e.keyErr != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, e.keyErr.Error())
	}
	return nil
}

// beginSubmission re-checks eligibility, marks the in-flight flag and freezes
// the request. Exactly one submission may be in flight per engine.
func (e *Engine) beginSubmission() (domain.TransactionRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.eligibility(); err != nil {
		return domain.TransactionRequest{}, err
	}

	rate, _ := e.snapshot.ConversionRate()
	amount := e.activeAmount()

	// The converted amount is always denominated in crypto: net of fee for a
	// fiat source, pass-through for a crypto source.
	var converted decimal.Decimal
	if e.direction == domain.FiatToCrypto {
		converted = domain.RoundCrypto(amount.Mul(decimal.NewFromInt(1).Sub(e.feeRate)).Div(rate))
	} else {
		converted = amount
	}

	e.submitting = true
	return domain.TransactionRequest{
		Amount:              amount,
		SourceCurrency:      e.direction.Source(),
		DestinationCurrency: e.direction.Destination(),
		FeeRate:             e.feeRate,
		ConvertedAmount:     converted,
		DestinationKey:      e.destKey,
	}, nil
}

// endSubmission clears the in-flight flag. Field state is untouched, so a
// failed submission leaves the engine immediately retryable.
func (e *Engine) endSubmission() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitting = false
}
