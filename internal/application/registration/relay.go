package registration

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

const (
	relayBatchSize = 20
	relayLease     = time.Minute
)

// Relay drives pending mirror ops to completion in the background.
type Relay struct {
	svc         *Service
	interval    time.Duration
	maxAttempts int
}

func NewRelay(svc *Service, interval time.Duration, maxAttempts int) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 12
	}
	return &Relay{svc: svc, interval: interval, maxAttempts: maxAttempts}
}

func (r *Relay) Run(ctx context.Context) {
	log := zlog.With().Str("component", "mirror_relay").Logger()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var lastErr string
	var lastAt time.Time

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				if err.Error() != lastErr || time.Since(lastAt) > 10*time.Second {
					log.Warn().Err(err).Msg("mirror batch failed")
					lastErr = err.Error()
					lastAt = time.Now()
				}
			} else {
				lastErr = ""
			}
		}
	}
}

// RunOnce processes one batch of due ops and returns how many converged.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	s := r.svc
	now := s.clock.Now()

	ops, err := s.outbox.ClaimDue(ctx, now, relayLease, relayBatchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, op := range ops {
		if err := s.applyMirror(ctx, op); err != nil {
			attempts := op.Attempts + 1
			if attempts >= r.maxAttempts {
				metrics.RecordMirror("dead")
				zlog.Error().Err(err).
					Str("op_id", op.ID).
					Str("user_id", op.UserID).
					Str("event_id", op.EventID).
					Int("attempts", attempts).
					Msg("mirror op dead-lettered; rebuild the user index to recover")
				if merr := s.outbox.MarkDead(ctx, op.ID, attempts, err.Error(), now); merr != nil {
					return done, merr
				}
				continue
			}

			metrics.RecordMirror("retry")
			next := now.Add(computeNextRetry(attempts))
			if merr := s.outbox.MarkRetry(ctx, op.ID, attempts, next, err.Error(), now); merr != nil {
				return done, merr
			}
			continue
		}

		metrics.RecordMirror("done")
		if err := s.outbox.MarkDone(ctx, op.ID, now); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}
