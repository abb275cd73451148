// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Fortune outcomes
	IncFortuneGranted()
	IncFortuneRejected()
	IncFrameFortune()

	// Store calls, labelled by operation name
	ObserveStoreDuration(op string, duration time.Duration)
	IncStoreError(op string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
