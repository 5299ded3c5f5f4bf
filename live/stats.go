package live

import (
	"sync"
	"time"
)

// Statistics tracks collector throughput and normalization outcomes.
type Statistics struct {
	mu                  sync.RWMutex
	MessagesProcessed   int64
	NormalizeSuccesses  int64
	NormalizeRejections int64
	BoatCounts          map[string]int64
	LastUpdate          time.Time
	StartTime           time.Time
}

func NewStatistics() *Statistics {
	return &Statistics{
		BoatCounts: make(map[string]int64),
		StartTime:  time.Now(),
		LastUpdate: time.Now(),
	}
}

func (s *Statistics) RecordMessage(boat string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.MessagesProcessed++
	if success {
		s.NormalizeSuccesses++
	} else {
		s.NormalizeRejections++
	}

	if boat != "" {
		s.BoatCounts[boat]++
	}
	s.LastUpdate = time.Now()
}

func (s *Statistics) GetSnapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	successRate := 0.0
	if s.MessagesProcessed > 0 {
		successRate = float64(s.NormalizeSuccesses) / float64(s.MessagesProcessed) * 100.0
	}

	uptime := time.Since(s.StartTime)
	msgPerSec := 0.0
	if uptime.Seconds() > 0 {
		msgPerSec = float64(s.MessagesProcessed) / uptime.Seconds()
	}

	boats := make(map[string]int64, len(s.BoatCounts))
	for b, n := range s.BoatCounts {
		boats[b] = n
	}

	return map[string]interface{}{
		"messages_processed":   s.MessagesProcessed,
		"normalize_successes":  s.NormalizeSuccesses,
		"normalize_rejections": s.NormalizeRejections,
		"success_rate":         successRate,
		"uptime_seconds":       uptime.Seconds(),
		"messages_per_sec":     msgPerSec,
		"boat_counts":          boats,
		"last_update":          s.LastUpdate,
	}
}
