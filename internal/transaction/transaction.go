// Package transaction undoes partially completed work, such as a script file
// written before its catalog row could be recorded.
package transaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// RollbackFunc reverses one completed step
type RollbackFunc func() error

type step struct {
	name string
	undo RollbackFunc
}

// Manager keeps undo steps and runs them newest first
type Manager struct {
	mu    sync.Mutex
	steps []step
	log   *zerolog.Logger
}

// NewManager creates an empty manager
func NewManager(log *zerolog.Logger) *Manager {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Manager{log: log}
}

// Add registers the undo step for work that just completed
func (m *Manager) Add(name string, fn RollbackFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, undo: fn})
}

// Pending returns the number of registered steps
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Rollback runs every step in reverse order. All steps run even when some
// fail; the failures are joined into the returned error.
func (m *Manager) Rollback() error {
	m.mu.Lock()
	steps := m.steps
	m.steps = nil
	m.mu.Unlock()

	if len(steps) == 0 {
		return nil
	}

	m.log.Debug().Int("steps", len(steps)).Msg("rolling back")

	var errs []error
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if err := s.undo(); err != nil {
			m.log.Error().Err(err).Str("step", s.name).Msg("rollback step failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		m.log.Debug().Str("step", s.name).Msg("rolled back")
	}

	if len(errs) > 0 {
		return fmt.Errorf("rollback: %w", errors.Join(errs...))
	}
	return nil
}

// Commit drops the registered steps
func (m *Manager) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}
