// Package status provides a thread-safe status tracker for the observer
// daemon. It is read by HTTP handlers while the pipeline writes to it.
package status

import (
	"sync"
	"time"

	"github.com/beringar/fcu-observer/internal/pipeline"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker    string
	Topic     string
	FocusUnit string
	HTTPAddr  string
}

// Counts tracks message totals since startup.
type Counts struct {
	Received  int
	New       int
	Duplicate int
	Malformed int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Counts        Counts
	// Last is the most recent observation, nil before the first message.
	Last   *pipeline.Observation
	Config Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex. It implements
// pipeline.Sink. The mutex is for the HTTP readers, not the pipeline:
// the pipeline itself stays single-writer.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Record stores the observation and updates message counts.
// Called from the dispatcher on every processed message.
func (t *Tracker) Record(obs pipeline.Observation) error {
	t.mu.Lock()
	t.snap.Last = &obs
	t.snap.Counts.Received++
	if obs.IsNew {
		t.snap.Counts.New++
	} else {
		t.snap.Counts.Duplicate++
	}
	t.mu.Unlock()
	return nil
}

// RecordMalformed counts a dropped message body.
func (t *Tracker) RecordMalformed() {
	t.mu.Lock()
	t.snap.Counts.Malformed++
	t.mu.Unlock()
}

// SetMQTTConnected sets the broker connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
