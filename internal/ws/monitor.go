package ws

import (
	"context"
	"log"
	"time"
)

const DefaultPingInterval = 30 * time.Second

// Monitor periodically pings every connection. A client that never fails a
// send is never evicted; there is no pong deadline.
type Monitor struct {
	registry *Registry
	interval time.Duration
	logger   *log.Logger
}

func NewMonitor(registry *Registry, interval time.Duration, logger *log.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	return &Monitor{registry: registry, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	if m == nil || m.registry == nil {
		return
	}

	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			dead := m.registry.PingAllConnections(ctx)
			if dead > 0 && m.logger != nil {
				m.logger.Printf("WS monitor | evicted=%d online_users=%d", dead, len(m.registry.OnlineUsers()))
			}
		}
	}
}
