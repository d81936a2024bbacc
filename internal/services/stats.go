package services

import "time"

// Stats summarises the service's cleaning runs.
type Stats struct {
	TotalProcessed     int
	SuccessfulRuns     int
	FailedRuns         int
	FailuresByKind     map[Kind]int
	AverageTime        time.Duration
	LastProcessingTime time.Time
}

// record must be called with s.mu held.
func (s *CleaningService) record(elapsed time.Duration) {
	s.stats.TotalProcessed++
	s.totalTime += elapsed
	s.stats.AverageTime = s.totalTime / time.Duration(s.stats.TotalProcessed)
	s.stats.LastProcessingTime = time.Now()
}

// GetProcessingStats returns a snapshot of the counters.
func (s *CleaningService) GetProcessingStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.FailuresByKind = make(map[Kind]int, len(s.stats.FailuresByKind))
	for k, v := range s.stats.FailuresByKind {
		stats.FailuresByKind[k] = v
	}
	return stats
}
