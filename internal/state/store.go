package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/flotilla/internal/orchestrator"
)

// Snapshot is the last successful fleet data plus the health of the polls
// that produced it.
type Snapshot struct {
	Containers          []orchestrator.Container
	HasContainers       bool
	Templates           []orchestrator.Template
	HasTemplates        bool
	LastUpdated         time.Time
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of a container poll. When err is non-nil the
// previous containers are kept and only the error is recorded.
func (s *Store) Update(containers []orchestrator.Container, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastUpdated = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Containers = cloneContainers(containers)
	s.snapshot.HasContainers = true
	s.snapshot.LastError = nil
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
}

// UpdateTemplates records a fetched template catalog. Failed template
// fetches leave the catalog untouched and do not count as poll failures.
func (s *Store) UpdateTemplates(templates []orchestrator.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Templates = cloneTemplates(templates)
	s.snapshot.HasTemplates = true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Containers = cloneContainers(s.snapshot.Containers)
	snap.Templates = cloneTemplates(s.snapshot.Templates)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneContainers(items []orchestrator.Container) []orchestrator.Container {
	if len(items) == 0 {
		return nil
	}
	dup := make([]orchestrator.Container, len(items))
	for i, c := range items {
		dup[i] = c
		if c.Names != nil {
			dup[i].Names = append([]string(nil), c.Names...)
		}
	}
	return dup
}

func cloneTemplates(items []orchestrator.Template) []orchestrator.Template {
	if len(items) == 0 {
		return nil
	}
	dup := make([]orchestrator.Template, len(items))
	copy(dup, items)
	return dup
}
