// Package health runs preflight checks against the external collaborators a
// pipeline run depends on.
package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSkipped marks a check for a component that is not configured.
var ErrSkipped = errors.New("check skipped")

// Status is the result of one check.
type Status struct {
	Component string
	Healthy   bool
	Skipped   bool
	Message   string
	Err       error
	Duration  time.Duration
}

// Check inspects one component. A check returning ErrSkipped is reported as
// not configured rather than unhealthy.
type Check struct {
	Component string
	Run       func(ctx context.Context) (string, error)
}

// Tracker records component statuses in the order they were first seen.
type Tracker struct {
	mu       sync.RWMutex
	order    []string
	statuses map[string]*Status
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{statuses: make(map[string]*Status)}
}

func (t *Tracker) set(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.statuses[s.Component]; !exists {
		t.order = append(t.order, s.Component)
	}
	t.statuses[s.Component] = &s
}

// SetHealthy marks a component as healthy.
func (t *Tracker) SetHealthy(component, message string) {
	t.set(Status{Component: component, Healthy: true, Message: message})
}

// SetUnhealthy marks a component as unhealthy.
func (t *Tracker) SetUnhealthy(component string, err error) {
	t.set(Status{Component: component, Err: err, Message: err.Error()})
}

// Get returns a copy of a component's status, or nil.
func (t *Tracker) Get(component string) *Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s, ok := t.statuses[component]; ok {
		cp := *s
		return &cp
	}
	return nil
}

// All returns every status in first-seen order.
func (t *Tracker) All() []Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Status, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.statuses[name])
	}
	return out
}

// Healthy reports whether no checked component is unhealthy. Skipped
// components do not count.
func (t *Tracker) Healthy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, s := range t.statuses {
		if !s.Healthy && !s.Skipped {
			return false
		}
	}
	return true
}

// Run executes the checks in order and records their outcome.
func (t *Tracker) Run(ctx context.Context, checks []Check) {
	for _, c := range checks {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		msg, err := c.Run(ctx)
		s := Status{Component: c.Component, Message: msg, Duration: time.Since(start)}

		switch {
		case err == nil:
			s.Healthy = true
		case errors.Is(err, ErrSkipped):
			s.Skipped = true
			if s.Message == "" {
				s.Message = "not configured"
			}
		default:
			s.Err = err
			s.Message = err.Error()
			slog.Warn("health check failed", "component", c.Component, "error", err)
		}
		t.set(s)
	}
}
