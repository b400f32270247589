// Package netmon tracks whether the server is reachable and flushes the
// offline queue when it comes back.
package netmon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/client/queue"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrOffline is reported by Flush while the monitor is offline.
var ErrOffline = errors.New("offline")

// PingTimeout bounds a single reachability probe.
const PingTimeout = 3 * time.Second

// Pinger probes the server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FlushFunc drains the offline queue.
type FlushFunc func(ctx context.Context) queue.FlushReport

type Monitor struct {
	flush  FlushFunc
	logger logging.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	online    bool
	listeners []func(online bool)
}

// New returns a monitor that starts online; the first failed call or probe
// flips it.
func New(flush FlushFunc, logger logging.Logger) *Monitor {
	return &Monitor{
		flush:  flush,
		logger: logger.With("module", "netmon"),
		online: true,
	}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// OnChange registers fn to be called after every transition.
func (m *Monitor) OnChange(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// SetOnline records the connectivity state. Going from offline to online
// runs one flush before returning.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	prev := m.online
	m.online = online
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.Unlock()

	if prev == online {
		return
	}

	if online {
		m.logger.Info(ctx, "switched to online mode")
	} else {
		m.logger.Info(ctx, "switched to offline mode")
	}
	for _, fn := range listeners {
		fn(online)
	}

	if online {
		m.Flush(ctx)
	}
}

// ReportFailure marks the server unreachable after a transient call failure.
func (m *Monitor) ReportFailure(ctx context.Context) {
	m.SetOnline(ctx, false)
}

// ReportSuccess marks the server reachable after a successful call.
func (m *Monitor) ReportSuccess(ctx context.Context) {
	m.SetOnline(ctx, true)
}

// Flush drains the queue. Concurrent callers share one run.
func (m *Monitor) Flush(ctx context.Context) queue.FlushReport {
	if !m.Online() {
		return queue.FlushReport{Err: ErrOffline}
	}

	v, _, shared := m.group.Do("flush", func() (any, error) {
		return m.flush(ctx), nil
	})
	report := v.(queue.FlushReport)
	if shared {
		m.logger.Debug(ctx, "joined running flush")
	}
	return report
}

// Watch probes p every interval until ctx is done, updating the state from
// the result.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, p Pinger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Probe(ctx, p)
		case <-ctx.Done():
			return
		}
	}
}

// Probe pings once and records the outcome.
func (m *Monitor) Probe(ctx context.Context, p Pinger) bool {
	pctx, cancel := context.WithTimeout(ctx, PingTimeout)
	err := p.Ping(pctx)
	cancel()

	if err != nil {
		m.logger.Debug(ctx, "ping failed", "error", err)
	}
	m.SetOnline(ctx, err == nil)
	return err == nil
}
