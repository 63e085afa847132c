package telemetry

import "testing"

func TestParseEnvelope(t *testing.T) {
	raw := []byte(`{
		"timestamp": "2026-08-26T10:00:00",
		"status": {
			"fCU_01_04": {"nvoSpaceTemp": "23.2 °C {ok}"},
			"fCU_01_05": {"nvoSpaceTemp": "21.0 °C {ok}"}
		}
	}`)
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Timestamp != "2026-08-26T10:00:00" {
		t.Errorf("timestamp: got %q", env.Timestamp)
	}
	if env.UnitCount() != 2 {
		t.Errorf("unit count: got %d", env.UnitCount())
	}
	if env.Unit("fCU_01_04") == nil {
		t.Error("expected fCU_01_04 present")
	}
	if env.Unit("fCU_99_99") != nil {
		t.Error("expected missing unit to be nil")
	}
}

func TestParseEnvelopeIgnoresUnknownKeys(t *testing.T) {
	raw := []byte(`{"timestamp": "t1", "site": "nbc", "schema": 3, "status": {}}`)
	env, err := ParseEnvelope(raw)
	if err != nil {
		t.Fatalf("unknown keys must be ignored: %v", err)
	}
	if env.Timestamp != "t1" {
		t.Errorf("timestamp: got %q", env.Timestamp)
	}
}

func TestParseEnvelopeMissingStatus(t *testing.T) {
	// Absence of the status key is not an error.
	env, err := ParseEnvelope([]byte(`{"timestamp": "t1"}`))
	if err != nil {
		t.Fatalf("missing status must not fail: %v", err)
	}
	if env.UnitCount() != 0 {
		t.Errorf("expected 0 units, got %d", env.UnitCount())
	}
}

func TestParseEnvelopeMissingTimestamp(t *testing.T) {
	// The source system's placeholder stands in for a missing timestamp.
	env, err := ParseEnvelope([]byte(`{"status": {}}`))
	if err != nil {
		t.Fatalf("missing timestamp must not fail: %v", err)
	}
	if env.Timestamp != "N/A" {
		t.Errorf("expected N/A placeholder, got %q", env.Timestamp)
	}
}

func TestParseEnvelopeMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`{`),
		[]byte(`not json`),
		[]byte(`[1,2,3]`),
		[]byte(`{"timestamp": 42}`),
		[]byte(`{"status": {"fCU_01_04": {"nvoSpaceTemp": 23.2}}}`),
	}
	for _, raw := range cases {
		if _, err := ParseEnvelope(raw); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}
