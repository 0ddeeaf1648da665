package playback

import (
	"math"
	"sync"

	"github.com/pot-code/learnhub/internal/progress"
)

// manual completion credits at least this share of the video
const manualCompletionShare = 0.8

// Session watch state of one user on one video: not_started -> in_progress -> completed.
//
// Time updates are debounced, start and completion are written immediately.
type Session struct {
	mu        sync.Mutex
	status    progress.RecordStatus
	debouncer *Debouncer
}

// NewSession create a Session starting from the persisted status
func NewSession(status progress.RecordStatus, debouncer *Debouncer) *Session {
	if !status.Valid() {
		status = progress.StatusNotStarted
	}
	return &Session{status: status, debouncer: debouncer}
}

// Status current state
func (s *Session) Status() progress.RecordStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start playback started, an untouched video moves to in_progress
func (s *Session) Start() error {
	s.mu.Lock()
	if s.status != progress.StatusNotStarted {
		s.mu.Unlock()
		return nil
	}
	s.status = progress.StatusInProgress
	s.mu.Unlock()

	return s.debouncer.FlushNow(Payload{Status: progress.StatusInProgress, ProgressSeconds: 0})
}

// TimeUpdate playback position changed
func (s *Session) TimeUpdate(currentTime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != progress.StatusInProgress {
		return
	}
	s.debouncer.Schedule(Payload{Status: progress.StatusInProgress, ProgressSeconds: seconds(currentTime)})
}

// End playback reached the end of the video
func (s *Session) End(duration float64) error {
	return s.complete(seconds(duration))
}

// MarkComplete completion requested before the natural end
func (s *Session) MarkComplete(currentTime, duration float64) error {
	return s.complete(seconds(math.Max(currentTime, manualCompletionShare*duration)))
}

func (s *Session) complete(progressSeconds int) error {
	s.mu.Lock()
	s.status = progress.StatusCompleted
	s.mu.Unlock()

	return s.debouncer.FlushNow(Payload{Status: progress.StatusCompleted, ProgressSeconds: progressSeconds})
}

// Close teardown, the pending write is dropped
func (s *Session) Close() {
	s.debouncer.Cancel()
}

func seconds(v float64) int {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v))
}
