package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bitez/platform/internal/api/metrics"
	"github.com/bitez/platform/internal/core/ports"
)

const defaultSweepInterval = time.Hour

// Sweeper periodically deletes refresh-token rows past their expiry.
type Sweeper struct {
	tokens   ports.RefreshTokenRepository
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
	done     chan struct{}
}

func NewSweeper(tokens ports.RefreshTokenRepository, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		tokens:   tokens,
		interval: interval,
		log:      log,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Run sweeps once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// Done is closed once Run has returned.
func (s *Sweeper) Done() <-chan struct{} { return s.done }

// SweepOnce deletes rows expired at the current time and returns the count.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.tokens.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token sweep failed")
		return 0
	}
	if n > 0 {
		metrics.RefreshTokensSweptTotal.Add(float64(n))
		s.log.Info().Int64("deleted", n).Msg("expired refresh tokens swept")
	}
	return n
}
