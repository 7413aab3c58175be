package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Refresher is the polling surface of the Reconciler.
type Refresher interface {
	RefreshClock(ctx context.Context)
	RefreshLogs(ctx context.Context)
	CheckStatus(ctx context.Context)
}

// Poller drives the periodic refreshes. Each poll runs on its own goroutine
// so a slow request never delays the next tick; overlapping requests for the
// same resource are expected.
type Poller struct {
	target     Refresher
	clock      clockwork.Clock
	clockEvery time.Duration
	logsEvery  time.Duration

	wg sync.WaitGroup
}

// NewPoller creates a Poller. A nil clock means the real clock.
func NewPoller(target Refresher, clock clockwork.Clock, clockEvery, logsEvery time.Duration) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{target: target, clock: clock, clockEvery: clockEvery, logsEvery: logsEvery}
}

// Run refreshes the clock, the logs and the status immediately, then keeps
// polling until ctx is cancelled. It returns once in-flight polls finish.
func (p *Poller) Run(ctx context.Context) {
	clockTicker := p.clock.NewTicker(p.clockEvery)
	defer clockTicker.Stop()
	logsTicker := p.clock.NewTicker(p.logsEvery)
	defer logsTicker.Stop()

	p.spawn(ctx, p.target.RefreshClock)
	p.spawn(ctx, p.target.RefreshLogs)
	p.spawn(ctx, p.target.CheckStatus)

	log.Debug().
		Dur("clock_every", p.clockEvery).
		Dur("logs_every", p.logsEvery).
		Msg("polling started")

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			log.Debug().Msg("polling stopped")
			return
		case <-clockTicker.Chan():
			p.spawn(ctx, p.target.RefreshClock)
		case <-logsTicker.Chan():
			p.spawn(ctx, p.target.RefreshLogs)
		}
	}
}

func (p *Poller) spawn(ctx context.Context, poll func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		poll(ctx)
	}()
}
