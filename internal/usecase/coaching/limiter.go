package coaching

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterPruneSize = 10000
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// userLimiter keeps one token bucket per user.
type userLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	entries map[uuid.UUID]*limiterEntry
}

func newUserLimiter(perMinute int) *userLimiter {
	burst := perMinute
	if burst > 3 {
		burst = 3
	}
	return &userLimiter{
		every:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		entries: make(map[uuid.UUID]*limiterEntry),
	}
}

func (l *userLimiter) allow(userID uuid.UUID, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= limiterPruneSize {
		for id, e := range l.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(l.entries, id)
			}
		}
	}

	e, ok := l.entries[userID]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.entries[userID] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}
