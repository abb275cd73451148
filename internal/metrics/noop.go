package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncFortuneGranted is a no-op.
func (n *NoopRecorder) IncFortuneGranted() {}

// IncFortuneRejected is a no-op.
func (n *NoopRecorder) IncFortuneRejected() {}

// IncFrameFortune is a no-op.
func (n *NoopRecorder) IncFrameFortune() {}

// ObserveStoreDuration is a no-op.
func (n *NoopRecorder) ObserveStoreDuration(op string, duration time.Duration) {}

// IncStoreError is a no-op.
func (n *NoopRecorder) IncStoreError(op string) {}
