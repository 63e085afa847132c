// Package sequence tracks message arrival state: whether each snapshot
// carries new data or is a broker retransmission, and how far apart
// messages arrive.
//
// The Tracker is the one piece of mutable shared state in the pipeline.
// It is NOT safe for concurrent use: the single-connection, single-handler
// model guarantees exactly one goroutine touches it. If the observer ever
// fans out to multiple connections, this state must be partitioned per
// connection or put behind a mutex.
package sequence

import "time"

// Classification is the verdict for one message.
type Classification struct {
	// IsNew reports whether the data timestamp differs from the previous
	// message's. The first message of a run is always new.
	IsNew bool
	// IntervalSeconds is the wall-clock time since the previous arrival,
	// or nil on the first message.
	IntervalSeconds *float64
}

// Tracker remembers the last arrival. Zero value is not ready; use New.
type Tracker struct {
	lastReceivedAt    time.Time
	hasArrival        bool
	lastDataTimestamp string
	hasTimestamp      bool
	messageCount      int
}

// New creates an empty Tracker. State lives for the process only and is
// never persisted; a restart forgets everything.
func New() *Tracker {
	return &Tracker{}
}

// Classify compares a message against the previous arrival and then
// unconditionally records it as the new previous arrival. Novelty is
// plain string inequality of the source-reported timestamp: a repeated
// timestamp over genuinely changed values (clock coarser than the update
// rate) still classifies as duplicate — intentional, matching the source
// system's contract.
func (t *Tracker) Classify(dataTimestamp string, receivedAt time.Time) Classification {
	var c Classification

	if t.hasArrival {
		secs := receivedAt.Sub(t.lastReceivedAt).Seconds()
		c.IntervalSeconds = &secs
	}
	c.IsNew = !t.hasTimestamp || dataTimestamp != t.lastDataTimestamp

	t.lastReceivedAt = receivedAt
	t.hasArrival = true
	t.lastDataTimestamp = dataTimestamp
	t.hasTimestamp = true

	return c
}

// CountMessage advances the processed-message counter and returns the new
// count. Only the dispatcher calls this, and only after the payload has
// parsed — malformed messages never count.
func (t *Tracker) CountMessage() int {
	t.messageCount++
	return t.messageCount
}

// MessageCount returns the number of messages counted so far.
func (t *Tracker) MessageCount() int {
	return t.messageCount
}
