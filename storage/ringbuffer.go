package storage

import (
	"sync"
	"time"

	"f50-race-telemetry/telemetry"
)

// RingBuffer keeps the most recent telemetry rows in memory for the live
// endpoints, with a latest-row index per boat.
type RingBuffer struct {
	data     []telemetry.Row
	head     int
	size     int
	capacity int
	mu       sync.RWMutex

	latestByBoat map[string]telemetry.Row
	indexMu      sync.RWMutex
}

// NewRingBuffer allocates a buffer holding up to capacity rows.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data:         make([]telemetry.Row, capacity),
		capacity:     capacity,
		latestByBoat: make(map[string]telemetry.Row),
	}
}

// Push stores a row, evicting the oldest when full.
func (rb *RingBuffer) Push(row telemetry.Row) {
	rb.mu.Lock()
	rb.data[rb.head] = row
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
	rb.mu.Unlock()

	if boat := row.Boat(); boat != "" {
		rb.indexMu.Lock()
		rb.latestByBoat[boat] = row
		rb.indexMu.Unlock()
	}
}

// GetRecent returns up to n rows, newest first.
func (rb *RingBuffer) GetRecent(n int) []telemetry.Row {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n > rb.size {
		n = rb.size
	}
	result := make([]telemetry.Row, n)
	for i := 0; i < n; i++ {
		idx := (rb.head - 1 - i + rb.capacity) % rb.capacity
		result[i] = rb.data[idx]
	}
	return result
}

// GetByTimeRange returns rows with timestamps in [start, end], in buffer
// order.
func (rb *RingBuffer) GetByTimeRange(start, end time.Time) []telemetry.Row {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]telemetry.Row, 0)
	for i := 0; i < rb.size; i++ {
		idx := (rb.head - rb.size + i + rb.capacity) % rb.capacity
		row := rb.data[idx]
		ts := row.Timestamp()
		if !ts.Before(start) && !ts.After(end) {
			result = append(result, row)
		}
	}
	return result
}

// GetLatestByBoat returns the most recent row for a boat, or nil.
func (rb *RingBuffer) GetLatestByBoat(boat string) telemetry.Row {
	rb.indexMu.RLock()
	defer rb.indexMu.RUnlock()
	return rb.latestByBoat[boat]
}

// Boats returns the boats with at least one buffered row.
func (rb *RingBuffer) Boats() []string {
	rb.indexMu.RLock()
	defer rb.indexMu.RUnlock()

	boats := make([]string, 0, len(rb.latestByBoat))
	for b := range rb.latestByBoat {
		boats = append(boats, b)
	}
	return boats
}

// Size returns the number of buffered rows.
func (rb *RingBuffer) Size() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.size
}

// Capacity returns the buffer's fixed capacity.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// GetStats reports buffer occupancy for the status endpoint.
func (rb *RingBuffer) GetStats() map[string]interface{} {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	oldest := time.Time{}
	newest := time.Time{}
	if rb.size > 0 {
		oldestIdx := (rb.head - rb.size + rb.capacity) % rb.capacity
		oldest = rb.data[oldestIdx].Timestamp()
		newestIdx := (rb.head - 1 + rb.capacity) % rb.capacity
		newest = rb.data[newestIdx].Timestamp()
	}

	return map[string]interface{}{
		"size":              rb.size,
		"capacity":          rb.capacity,
		"utilization":       float64(rb.size) / float64(rb.capacity) * 100.0,
		"oldest_timestamp":  oldest,
		"newest_timestamp":  newest,
		"time_span_seconds": newest.Sub(oldest).Seconds(),
	}
}
