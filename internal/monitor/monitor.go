package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/primal-host/zpanel/internal/request"
)

const (
	StatusUnknown     = "unknown"
	StatusReachable   = "reachable"
	StatusUnreachable = "unreachable"
)

// maxEvents bounds the in-memory event history.
const maxEvents = 50

// Event records one appliance status change.
type Event struct {
	Time    time.Time `json:"time"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Message string    `json:"message"`
}

// State is a snapshot of what the monitor knows about the appliance.
type State struct {
	Status    string    `json:"status"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Reporter receives the result of every probe.
type Reporter interface {
	SetApplianceUp(up bool)
}

// Monitor periodically probes the appliance and keeps its last known status.
type Monitor struct {
	client   *request.Client
	probe    string
	interval time.Duration
	reporter Reporter

	mu     sync.RWMutex
	state  State
	events []Event

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New creates a monitor that GETs probe on the appliance every interval.
func New(c *request.Client, probe string, interval time.Duration) *Monitor {
	return &Monitor{
		client:   c,
		probe:    probe,
		interval: interval,
		state:    State{Status: StatusUnknown},
		stop:     make(chan struct{}),
	}
}

// Report forwards every probe result to r. Call it before Start.
func (m *Monitor) Report(r Reporter) {
	m.reporter = r
}

// Start begins the background poll loop. A non-positive interval disables it.
func (m *Monitor) Start() {
	if m.interval <= 0 {
		slog.Info("appliance monitor disabled")
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Check()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.Check()
			}
		}
	}()
	slog.Info("appliance monitor started", "interval", m.interval, "probe", m.probe)
}

// Stop ends the poll loop and waits for it.
func (m *Monitor) Stop() {
	m.once.Do(func() {
		close(m.stop)
		m.wg.Wait()
		slog.Info("appliance monitor stopped")
	})
}

// Check probes the appliance once and records the result.
func (m *Monitor) Check() State {
	timeout := m.interval
	if timeout <= 0 || timeout > 20*time.Second {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	next := State{Status: StatusReachable, CheckedAt: time.Now()}
	resp, err := m.client.Send(ctx, http.MethodGet, m.probe, nil)
	switch {
	case err != nil:
		next.Status = StatusUnreachable
		next.Detail = err.Error()
	case !resp.OK():
		next.Status = StatusUnreachable
		next.Detail = fmt.Sprintf("status %d", resp.Status)
	}
	if m.reporter != nil {
		m.reporter.SetApplianceUp(next.Status == StatusReachable)
	}
	m.record(next)
	return next
}

func (m *Monitor) record(next State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state.Status
	m.state = next
	if prev == next.Status {
		return
	}
	msg := fmt.Sprintf("Status changed: %s -> %s", prev, next.Status)
	if next.Detail != "" {
		msg += " (" + next.Detail + ")"
	}
	m.events = append(m.events, Event{Time: next.CheckedAt, From: prev, To: next.Status, Message: msg})
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	if next.Status == StatusUnreachable {
		slog.Warn("appliance unreachable", "detail", next.Detail)
	} else {
		slog.Info("appliance reachable")
	}
}

// State returns the latest probe result.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Events returns up to limit status changes, newest first.
func (m *Monitor) Events(limit int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]Event, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out
}
