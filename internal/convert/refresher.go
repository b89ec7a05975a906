package convert

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 10 * time.Second

// Refresher re-fetches rates on a fixed period for the lifetime of the
// converter session. A failed fetch leaves the last good rates in place and
// marks the display errored; the loop never stops on failure.
type Refresher struct {
	fetcher  *Fetcher
	engine   *Engine
	interval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func NewRefresher(fetcher *Fetcher, engine *Engine, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{fetcher: fetcher, engine: engine, interval: interval}
}

func (r *Refresher) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.sched = scheduler
	r.mu.Unlock()

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		snapshot, fetchErr := r.fetcher.Fetch(jobCtx)
		if fetchErr != nil {
			logrus.Warnf("Rate refresh %s failed, keeping last good rates: %v", execID, fetchErr)
			r.engine.RateFetchFailed()
			return
		}
		r.engine.IngestRates(snapshot)
		logrus.Debugf("Rate refresh %s applied a new snapshot", execID)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := r.Shutdown(); sdErr != nil {
			logrus.Errorf("Refresher shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// Shutdown stops the scheduler. Safe to call more than once; the shutdown
// goroutine and a deferred caller may both reach it.
func (r *Refresher) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sched == nil {
		return nil
	}
	err := r.sched.Shutdown()
	r.sched = nil
	return err
}
