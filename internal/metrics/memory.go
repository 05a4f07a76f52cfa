// Package metrics measures the Go runtime's memory use over a run.
package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/agbru/kroncalc/internal/format"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryUsage is the difference between two snapshots.
type MemoryUsage struct {
	Allocated uint64
	PeakHeap  uint64
	GCs       uint32
	GCPause   time.Duration
}

// String renders the usage on one line.
func (u MemoryUsage) String() string {
	return fmt.Sprintf("%s allocated, heap %s, %d GC (%s paused)",
		format.FormatBytes(u.Allocated), format.FormatBytes(u.PeakHeap), u.GCs,
		format.FormatExecutionDuration(u.GCPause))
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Since returns the usage between before and now. PeakHeap is the larger
// of the two heap readings.
func (mc *MemoryCollector) Since(before MemorySnapshot) MemoryUsage {
	return Delta(before, mc.Snapshot())
}

// Delta returns the usage between two snapshots.
func Delta(before, after MemorySnapshot) MemoryUsage {
	return MemoryUsage{
		Allocated: after.TotalAlloc - before.TotalAlloc,
		PeakHeap:  max(before.HeapAlloc, after.HeapAlloc),
		GCs:       after.NumGC - before.NumGC,
		GCPause:   time.Duration(after.PauseTotalNs - before.PauseTotalNs),
	}
}
