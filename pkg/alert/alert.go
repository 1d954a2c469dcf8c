// Package alert delivers situation escalation notifications to
// configured destinations.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Escalation describes one situation whose threat level rose between
// two published snapshots.
type Escalation struct {
	Situation string    `json:"situation"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	Previous  string    `json:"previous"`
	Count     int       `json:"count"`
	At        time.Time `json:"at"`
}

// Notifier delivers escalations to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, e *Escalation) error
}

// Manager broadcasts escalations to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends an escalation to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, e *Escalation) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
