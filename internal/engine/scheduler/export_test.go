package scheduler

import (
	"maps"
	"time"
)

// GetTaskStatusMap returns a copy of the internal task status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetTaskStatusMap() map[string]TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.taskStatus)
}

// SetClock replaces the clock used for build record timestamps.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}
