package notifications

import (
	"context"
	"time"
)

const DefaultCleanupInterval = time.Hour

type Cleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// Janitor removes expired notifications on a fixed interval.
type Janitor struct {
	cleaner  Cleaner
	interval time.Duration
}

func NewJanitor(cleaner Cleaner, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Janitor{cleaner: cleaner, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	if j == nil || j.cleaner == nil {
		return
	}

	_, _ = j.cleaner.CleanupExpired(ctx)

	t := time.NewTicker(j.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = j.cleaner.CleanupExpired(ctx)
		}
	}
}
