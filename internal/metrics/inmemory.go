package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	FortunesGranted      uint64
	FortunesRejected     uint64
	FrameFortunes        uint64
	StoreCalls           uint64
	StoreDurationTotalNs int64
	StoreErrors          uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	fortunesGranted      uint64
	fortunesRejected     uint64
	frameFortunes        uint64
	storeCalls           uint64
	storeDurationTotalNs int64
	storeErrors          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		FortunesGranted:      atomic.LoadUint64(&m.fortunesGranted),
		FortunesRejected:     atomic.LoadUint64(&m.fortunesRejected),
		FrameFortunes:        atomic.LoadUint64(&m.frameFortunes),
		StoreCalls:           atomic.LoadUint64(&m.storeCalls),
		StoreDurationTotalNs: atomic.LoadInt64(&m.storeDurationTotalNs),
		StoreErrors:          atomic.LoadUint64(&m.storeErrors),
	}
}

// IncFortuneGranted increments the granted counter.
func (m *InMemoryRecorder) IncFortuneGranted() {
	atomic.AddUint64(&m.fortunesGranted, 1)
}

// IncFortuneRejected increments the cooldown rejection counter.
func (m *InMemoryRecorder) IncFortuneRejected() {
	atomic.AddUint64(&m.fortunesRejected, 1)
}

// IncFrameFortune increments the frame fortune counter.
func (m *InMemoryRecorder) IncFrameFortune() {
	atomic.AddUint64(&m.frameFortunes, 1)
}

// ObserveStoreDuration records a store call.
func (m *InMemoryRecorder) ObserveStoreDuration(op string, duration time.Duration) {
	atomic.AddUint64(&m.storeCalls, 1)
	atomic.AddInt64(&m.storeDurationTotalNs, duration.Nanoseconds())
}

// IncStoreError increments the store error counter.
func (m *InMemoryRecorder) IncStoreError(op string) {
	atomic.AddUint64(&m.storeErrors, 1)
}
