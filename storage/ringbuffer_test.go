package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f50-race-telemetry/telemetry"
)

func bufferRow(boat string, ts time.Time, twa float64) telemetry.Row {
	return telemetry.Row{
		telemetry.FieldBoat:     boat,
		telemetry.FieldDateTime: ts,
		telemetry.FieldTWA:      twa,
	}
}

func TestRingBufferPushAndRecent(t *testing.T) {
	t.Parallel()

	rb := NewRingBuffer(3)
	base := time.Date(2025, 3, 22, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rb.Push(bufferRow("AUS", base.Add(time.Duration(i)*time.Second), float64(i)))
	}

	assert.Equal(t, 3, rb.Size())
	assert.Equal(t, 3, rb.Capacity())

	recent := rb.GetRecent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, 4.0, recent[0][telemetry.FieldTWA])
	assert.Equal(t, 3.0, recent[1][telemetry.FieldTWA])

	// Asking for more than is buffered caps at the buffer size; the two
	// oldest pushes were evicted.
	all := rb.GetRecent(10)
	require.Len(t, all, 3)
	assert.Equal(t, 2.0, all[2][telemetry.FieldTWA])
}

func TestRingBufferTimeRange(t *testing.T) {
	t.Parallel()

	rb := NewRingBuffer(10)
	base := time.Date(2025, 3, 22, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		rb.Push(bufferRow("AUS", base.Add(time.Duration(i)*time.Second), float64(i)))
	}

	got := rb.GetByTimeRange(base.Add(1*time.Second), base.Add(3*time.Second))
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0][telemetry.FieldTWA])
	assert.Equal(t, 3.0, got[2][telemetry.FieldTWA])
}

func TestRingBufferLatestByBoat(t *testing.T) {
	t.Parallel()

	rb := NewRingBuffer(4)
	base := time.Date(2025, 3, 22, 14, 0, 0, 0, time.UTC)
	rb.Push(bufferRow("AUS", base, 1))
	rb.Push(bufferRow("FRA", base.Add(time.Second), 2))
	rb.Push(bufferRow("AUS", base.Add(2*time.Second), 3))

	latest := rb.GetLatestByBoat("AUS")
	require.NotNil(t, latest)
	assert.Equal(t, 3.0, latest[telemetry.FieldTWA])

	assert.Nil(t, rb.GetLatestByBoat("GBR"))
	assert.ElementsMatch(t, []string{"AUS", "FRA"}, rb.Boats())
}

func TestRingBufferStats(t *testing.T) {
	t.Parallel()

	rb := NewRingBuffer(4)
	base := time.Date(2025, 3, 22, 14, 0, 0, 0, time.UTC)
	rb.Push(bufferRow("AUS", base, 0))
	rb.Push(bufferRow("AUS", base.Add(3*time.Second), 0))

	stats := rb.GetStats()
	assert.Equal(t, 2, stats["size"])
	assert.Equal(t, 50.0, stats["utilization"])
	assert.Equal(t, 3.0, stats["time_span_seconds"])
}

func TestRingBufferConcurrent(t *testing.T) {
	t.Parallel()

	rb := NewRingBuffer(64)
	base := time.Date(2025, 3, 22, 14, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			boat := fmt.Sprintf("B%d", g)
			for i := 0; i < 100; i++ {
				rb.Push(bufferRow(boat, base.Add(time.Duration(i)*time.Millisecond), float64(i)))
				rb.GetRecent(5)
				rb.GetLatestByBoat(boat)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 64, rb.Size())
	assert.Len(t, rb.Boats(), 4)
}
