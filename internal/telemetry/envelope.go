// Package telemetry parses FCU snapshot payloads and normalizes the
// heterogeneous per-unit field sets into canonical readings.
// This package has NO external dependencies (no MQTT, OS, or clocks).
package telemetry

import (
	"encoding/json"
	"fmt"
)

// UnitRecord maps a firmware field name to its encoded value string,
// e.g. "nvoSpaceTemp" -> "23.2 °C {ok}". The field set varies with
// firmware mode: a unit may report ~30 fields or as few as 7.
type UnitRecord map[string]string

// Envelope is one snapshot message covering the whole fleet. Timestamp is
// the data-generation time reported by the source system, not the receipt
// time; its string value is the sole basis for duplicate detection.
type Envelope struct {
	Timestamp string                `json:"timestamp"`
	Status    map[string]UnitRecord `json:"status"`
}

// ParseEnvelope decodes a raw message body. Unknown top-level keys are
// ignored. A missing timestamp key decodes as "N/A" (matching the source
// system's placeholder) and a missing status key as a nil map; neither is
// an error. Anything that is not a JSON object of the expected shape is.
func ParseEnvelope(raw []byte) (Envelope, error) {
	env := Envelope{Timestamp: "N/A"}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// UnitCount returns the number of units present in the snapshot.
func (e Envelope) UnitCount() int {
	return len(e.Status)
}

// Unit returns the record for the given unit ID, or nil if the snapshot
// does not contain it.
func (e Envelope) Unit(id string) UnitRecord {
	rec, ok := e.Status[id]
	if !ok {
		return nil
	}
	return rec
}
