package turn

import (
	"sync"

	"voxhire/agent/internal/ledger"
)

// Snapshot is the read-only projection handed to the presentation layer.
type Snapshot struct {
	State             State                    `json:"state"`
	CurrentQuestionID int64                    `json:"current_question_id,omitempty"`
	Progress          []ledger.SectionProgress `json:"progress"`
}

// snapshot holds the projection behind a lock so API readers never touch
// loop-owned state.
type snapshot struct {
	mu        sync.RWMutex
	st        State
	currentID int64
	progress  []ledger.SectionProgress
}

func (s *snapshot) set(st State, currentID int64, progress []ledger.SectionProgress) {
	s.mu.Lock()
	s.st = st
	s.currentID = currentID
	s.progress = progress
	s.mu.Unlock()
}

func (s *snapshot) setState(st State) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

func (s *snapshot) setProgress(p []ledger.SectionProgress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

func (s *snapshot) state() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

func (s *snapshot) view() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{State: s.st, CurrentQuestionID: s.currentID}
	out.Progress = append(out.Progress, s.progress...)
	return out
}

// Snapshot returns the current projection; safe from any goroutine.
func (c *Controller) Snapshot() Snapshot { return c.snap.view() }
