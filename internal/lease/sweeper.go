package lease

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rentora/rentora/internal/domain"
)

// Sweeper is the recurring task that drives overdue active leases through the
// expiry transition. It is the only caller of Service.Expire.
type Sweeper struct {
	leases   domain.LeaseRepository
	svc      *Service
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(leases domain.LeaseRepository, svc *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		leases:   leases,
		svc:      svc,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled. Each tick is one sweep; a slow
// sweep overlapping the next tick is tolerated because Expire is idempotent.
func (s *Sweeper) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("sweeper: starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper: stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires every lease whose end date has passed. Failures are isolated
// per lease and logged; the failed lease stays unexpired and is re-selected
// on the next tick.
func (s *Sweeper) Sweep(ctx context.Context) (expired, failed int) {
	started := s.now()
	log.Debug().Msg("sweeper: sweep start")

	leases, err := s.leases.ListExpirable(ctx, started)
	if err != nil {
		log.Error().Err(err).Msg("sweeper: list expirable leases")
		return 0, 0
	}

	for _, l := range leases {
		if err := s.svc.Expire(ctx, l.ID); err != nil {
			failed++
			log.Error().Err(err).Str("lease_id", l.ID.String()).Msg("sweeper: expire lease")
			continue
		}
		expired++
	}

	log.Info().
		Int("expired", expired).
		Int("failed", failed).
		Dur("took", time.Since(started)).
		Msg("sweeper: sweep complete")

	return expired, failed
}
