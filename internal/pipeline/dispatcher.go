// Package pipeline orchestrates per-message processing: envelope parsing,
// duplicate classification, focus-unit normalization, derived metrics, and
// hand-off to sinks.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/beringar/fcu-observer/internal/derive"
	"github.com/beringar/fcu-observer/internal/sequence"
	"github.com/beringar/fcu-observer/internal/telemetry"
)

// ErrMalformedPayload marks a message body that is not a valid snapshot
// envelope. The message is dropped without touching arrival state.
var ErrMalformedPayload = errors.New("malformed payload")

// Observation is the composed result for one processed message, handed to
// sinks. UnitRecord, Reading and Derived are nil when the snapshot does
// not contain the focus unit.
type Observation struct {
	MessageCount    int
	ReceivedAt      time.Time
	DataTimestamp   string
	IsNew           bool
	IntervalSeconds *float64
	PayloadBytes    int
	UnitCount       int
	UnitRecord      telemetry.UnitRecord
	Reading         *telemetry.Reading
	Derived         *derive.Status
}

// Sink consumes one Observation per processed message. It is called
// synchronously from the dispatcher and must not block indefinitely; a
// sink that can block must queue or time out internally.
type Sink interface {
	Record(obs Observation) error
}

// Dispatcher drives the pipeline for one message at a time. Not safe for
// concurrent use — one dispatcher per connection, one message in flight.
type Dispatcher struct {
	focusUnit  string
	tracker    *sequence.Tracker
	normalizer *telemetry.Normalizer
	sink       Sink
}

// New creates a Dispatcher observing the given focus unit.
func New(focusUnit string, tracker *sequence.Tracker, normalizer *telemetry.Normalizer, sink Sink) *Dispatcher {
	return &Dispatcher{
		focusUnit:  focusUnit,
		tracker:    tracker,
		normalizer: normalizer,
		sink:       sink,
	}
}

// Handle processes one raw message body received at the given wall-clock
// time. A parse failure returns ErrMalformedPayload and leaves all arrival
// state untouched. Any other error comes from the sink; the observation it
// wraps was still fully computed and counted.
func (d *Dispatcher) Handle(raw []byte, receivedAt time.Time) (Observation, error) {
	env, err := telemetry.ParseEnvelope(raw)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	cls := d.tracker.Classify(env.Timestamp, receivedAt)

	obs := Observation{
		MessageCount:    d.tracker.CountMessage(),
		ReceivedAt:      receivedAt,
		DataTimestamp:   env.Timestamp,
		IsNew:           cls.IsNew,
		IntervalSeconds: cls.IntervalSeconds,
		PayloadBytes:    len(raw),
		UnitCount:       env.UnitCount(),
	}

	// Units other than the focus unit are delivered but never decoded.
	if rec := env.Unit(d.focusUnit); rec != nil {
		reading := d.normalizer.Normalize(rec)
		status := derive.Derive(reading)
		obs.UnitRecord = rec
		obs.Reading = &reading
		obs.Derived = &status
	}

	if err := d.sink.Record(obs); err != nil {
		return obs, fmt.Errorf("record observation: %w", err)
	}
	return obs, nil
}
