// Package track polls a remote transaction record and drives the
// client-visible lifecycle: pending -> processing -> completed, or
// cancellation from either non-terminal state. Once a terminal status is
// observed polling stops and the view never regresses.
package track

import (
	"context"
	"errors"
	"sync"
	"time"

	"eternalpay/internal/adapters"
	"eternalpay/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultPollInterval = 5 * time.Second

// View is the one-way projection of the tracked transaction.
type View struct {
	ID                  string
	Observed            bool
	NotFound            bool
	Status              domain.TransactionStatus
	Message             string
	Timeline            []Step
	Amount              decimal.Decimal
	ConvertedAmount     decimal.Decimal
	FeeRate             decimal.Decimal
	SourceCurrency      string
	DestinationCurrency string
	DestinationKey      string
	Pix                 *domain.PixArtifact
}

func (v View) Terminal() bool { return v.Observed && v.Status.Terminal() }

// Tracker is the self-scheduling poll loop for one transaction. Each poll
// schedules the next only after the prior completes, so polls never overlap.
// Stop is the explicit cancellation handle for consumers that navigate away.
type Tracker struct {
	id       string
	client   adapters.TransactionClient
	pix      *PixService
	interval time.Duration

	mu     sync.Mutex
	view   View
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(id string, client adapters.TransactionClient, pix *PixService, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Tracker{
		id:       id,
		client:   client,
		pix:      pix,
		interval: interval,
		view:     View{ID: id},
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop. It must be called at most once.
func (t *Tracker) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	go t.run(runCtx)
}

// Stop cancels the loop and waits for it to exit.
func (t *Tracker) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	<-t.done
}

// Done is closed once the loop has exited, whether by terminal status or
// cancellation.
func (t *Tracker) Done() <-chan struct{} { return t.done }

func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// PaymentCode returns the copyable Pix code once it has arrived.
func (t *Tracker) PaymentCode() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view.Pix == nil || !t.view.Pix.HasCode() {
		return "", domain.ErrCodeUnavailable
	}
	return t.view.Pix.BRCode, nil
}

func (t *Tracker) run(ctx context.Context) {
	defer close(t.done)
	for {
		if t.pollOnce(ctx) {
			if t.View().Terminal() {
				logrus.WithField("transaction_id", t.id).Info("Transaction reached terminal status, polling stopped")
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(t.interval):
		}
	}
}

// pollOnce fetches the record and applies it; it reports whether a terminal
// status has been reached. A failed poll only logs and defers to the next
// scheduled attempt, since transient polling failures self-heal.
func (t *Tracker) pollOnce(ctx context.Context) bool {
	tx, err := t.client.Get(ctx, t.id)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, domain.ErrTransactionNotFound) {
			t.mu.Lock()
			t.view.NotFound = true
			t.mu.Unlock()
			logrus.WithField("transaction_id", t.id).Warn("Transaction does not exist, polling stopped")
			return true
		}
		logrus.WithError(err).WithField("transaction_id", t.id).
			Warn("Status poll failed, waiting for next scheduled attempt")
		return t.View().Terminal()
	}

	// Pix artifact generation happens outside the view lock: it may fetch the
	// text code over the network.
	var artifact *domain.PixArtifact
	if tx.WantsPixArtifact() {
		a := t.pix.ArtifactFor(ctx, tx)
		artifact = &a
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// A terminal view never regresses to a non-terminal one.
	if t.view.Terminal() {
		return true
	}

	t.view = View{
		ID:                  t.id,
		Observed:            true,
		Status:              tx.Status,
		Message:             statusMessage(tx.Status),
		Timeline:            buildTimeline(tx),
		Amount:              tx.Amount,
		ConvertedAmount:     tx.ConvertedAmount,
		FeeRate:             tx.FeeRate,
		SourceCurrency:      tx.SourceCurrency,
		DestinationCurrency: tx.DestinationCurrency,
		DestinationKey:      tx.DestinationKey,
		Pix:                 artifact,
	}
	return t.view.Terminal()
}
