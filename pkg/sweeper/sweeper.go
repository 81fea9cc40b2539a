// Package sweeper runs the periodic automatic-expiry pass in the
// background of the serving process.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/hazardhub/siren/pkg/utils/logging"
)

// SweepFunc performs one expiry pass and reports how many alerts it
// transitioned.
type SweepFunc func(ctx context.Context) (int, error)

type Sweeper struct {
	sweep    SweepFunc
	interval time.Duration
	wg       sync.WaitGroup
}

func New(sweep SweepFunc, interval time.Duration) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
	}
}

// Start launches the ticker loop. It returns immediately; the loop stops
// when ctx is cancelled. A failed pass is reported and the loop keeps
// going, the next tick gets a fresh chance.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logger := logging.From(ctx)
		logger.Info("starting expiry sweeper", "interval", s.interval)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("expiry sweeper stopped")
				return
			case <-ticker.C:
				expired, err := s.sweep(ctx)
				if err != nil {
					errutil.Handle(ctx, err)
					continue
				}
				if expired > 0 {
					logger.Info("expiry sweep completed", "expired", expired)
				}
			}
		}
	}()
}

// Wait blocks until the loop has exited.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}
