package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type MirrorOutbox struct {
	mu   sync.Mutex
	byID map[string]*domain.MirrorOp
}

func NewMirrorOutbox() *MirrorOutbox {
	return &MirrorOutbox{byID: make(map[string]*domain.MirrorOp)}
}

func (o *MirrorOutbox) Enqueue(ctx context.Context, op *domain.MirrorOp) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := *op
	o.byID[op.ID] = &c
	return nil
}

func (o *MirrorOutbox) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.MirrorOp, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	due := make([]*domain.MirrorOp, 0)
	for _, op := range o.byID {
		if op.Status == domain.OutboxPending && !op.NextRetryAt.After(now) {
			due = append(due, op)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRetryAt.Before(due[j].NextRetryAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	out := make([]*domain.MirrorOp, 0, len(due))
	for _, op := range due {
		op.NextRetryAt = now.Add(lease)
		op.UpdatedAt = now.UTC()
		c := *op
		out = append(out, &c)
	}
	return out, nil
}

func (o *MirrorOutbox) MarkDone(ctx context.Context, id string, now time.Time) error {
	return o.update(id, func(op *domain.MirrorOp) {
		op.Status = domain.OutboxDone
		op.UpdatedAt = now.UTC()
	})
}

func (o *MirrorOutbox) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string, now time.Time) error {
	return o.update(id, func(op *domain.MirrorOp) {
		op.Attempts = attempts
		op.NextRetryAt = next.UTC()
		op.LastError = lastErr
		op.UpdatedAt = now.UTC()
	})
}

func (o *MirrorOutbox) MarkDead(ctx context.Context, id string, attempts int, lastErr string, now time.Time) error {
	return o.update(id, func(op *domain.MirrorOp) {
		op.Status = domain.OutboxDead
		op.Attempts = attempts
		op.LastError = lastErr
		op.UpdatedAt = now.UTC()
	})
}

// Get returns a copy of one op; used by tests and diagnostics.
func (o *MirrorOutbox) Get(id string) (domain.MirrorOp, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	op, ok := o.byID[id]
	if !ok {
		return domain.MirrorOp{}, false
	}
	return *op, true
}

// Count returns how many ops are in status.
func (o *MirrorOutbox) Count(status domain.OutboxStatus) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, op := range o.byID {
		if op.Status == status {
			n++
		}
	}
	return n
}

func (o *MirrorOutbox) update(id string, fn func(op *domain.MirrorOp)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	op, ok := o.byID[id]
	if !ok {
		return domain.ErrNotFound("mirror op not found")
	}
	fn(op)
	return nil
}
