package bridge

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultInterval = 200 * time.Millisecond

// Recurring drives a Controller with a periodic tick.
type Recurring struct {
	ctl     *Controller
	started bool
}

func NewRecurring(ctl *Controller) *Recurring {
	return &Recurring{ctl: ctl}
}

// Start ticks every interval until ctx is done. It blocks.
func (r *Recurring) Start(ctx context.Context, interval time.Duration) error {
	if r.started {
		panic("attempted to call bridge.Recurring.Start() twice")
	}

	r.started = true

	if interval <= 0 {
		interval = DefaultInterval
	}

	log.Info().
		Dur("Interval", interval).
		Stringer("Device", r.ctl.Identity()).
		Msg("Starting recurring bridge tick")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Recurring bridge tick is shutting down")
			return ctx.Err()
		case <-time.After(interval):
		}

		r.ctl.Tick()
	}
}
