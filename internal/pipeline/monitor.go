package pipeline

import (
	"runtime"
	"time"
)

// MemorySnapshot captures process memory usage at a point in time.
type MemorySnapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	HeapAlloc  uint64    `json:"heap_alloc"`
	HeapSys    uint64    `json:"heap_sys"`
	NumGC      uint32    `json:"num_gc"`
	Goroutines int       `json:"goroutines"`
}

// CaptureMemory reads current runtime memory statistics. The batch driver
// logs these around large runs to spot leaks in long-lived processes.
func CaptureMemory() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemorySnapshot{
		Timestamp:  time.Now(),
		HeapAlloc:  ms.HeapAlloc,
		HeapSys:    ms.HeapSys,
		NumGC:      ms.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
