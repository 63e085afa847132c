package status

import (
	"encoding/json"
	"time"

	"github.com/beringar/fcu-observer/internal/pipeline"
	"github.com/beringar/fcu-observer/internal/telemetry"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Ready         bool             `json:"ready"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Counts        CountsJSON       `json:"message_counts"`
	Last          *ObservationJSON `json:"last_observation,omitempty"`
	Config        ConfigJSON       `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
	Topic     string `json:"topic"`
}

// CountsJSON is the JSON representation of message counts.
type CountsJSON struct {
	Received  int `json:"received"`
	New       int `json:"new"`
	Duplicate int `json:"duplicate"`
	Malformed int `json:"malformed"`
}

// ObservationJSON is the JSON representation of the last observation.
type ObservationJSON struct {
	MessageCount    int               `json:"message_count"`
	ReceivedAt      string            `json:"received_at"`
	DataTimestamp   string            `json:"data_timestamp"`
	IsNew           bool              `json:"is_new"`
	IntervalSeconds *float64          `json:"interval_seconds,omitempty"`
	PayloadBytes    int               `json:"payload_bytes"`
	UnitCount       int               `json:"unit_count"`
	UnitPresent     bool              `json:"unit_present"`
	RunningState    string            `json:"running_state,omitempty"`
	SetpointGap     *float64          `json:"setpoint_gap,omitempty"`
	Readings        map[string]string `json:"readings,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker    string `json:"broker"`
	Topic     string `json:"topic"`
	FocusUnit string `json:"focus_unit"`
	HTTPAddr  string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Ready:         snap.Counts.Received > 0,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT: MQTTStatus{
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.Broker,
			Topic:     snap.Config.Topic,
		},
		Counts: CountsJSON{
			Received:  snap.Counts.Received,
			New:       snap.Counts.New,
			Duplicate: snap.Counts.Duplicate,
			Malformed: snap.Counts.Malformed,
		},
		Config: ConfigJSON{
			Broker:    snap.Config.Broker,
			Topic:     snap.Config.Topic,
			FocusUnit: snap.Config.FocusUnit,
			HTTPAddr:  snap.Config.HTTPAddr,
		},
	}

	if snap.Last != nil {
		inner.Last = buildObservation(*snap.Last)
	}
	return inner
}

func buildObservation(obs pipeline.Observation) *ObservationJSON {
	oj := &ObservationJSON{
		MessageCount:    obs.MessageCount,
		ReceivedAt:      obs.ReceivedAt.UTC().Format(time.RFC3339),
		DataTimestamp:   obs.DataTimestamp,
		IsNew:           obs.IsNew,
		IntervalSeconds: obs.IntervalSeconds,
		PayloadBytes:    obs.PayloadBytes,
		UnitCount:       obs.UnitCount,
		UnitPresent:     obs.Reading != nil,
	}
	if obs.Derived != nil {
		oj.RunningState = string(obs.Derived.Running)
		oj.SetpointGap = obs.Derived.SetpointGap
	}
	if obs.Reading != nil {
		oj.Readings = readingMap(*obs.Reading)
	}
	return oj
}

func readingMap(r telemetry.Reading) map[string]string {
	m := make(map[string]string)
	put := func(field string, v *telemetry.Value) {
		if v != nil {
			m[field] = v.String()
		}
	}
	put(telemetry.FieldSpaceTemp, r.SpaceTemp)
	put(telemetry.FieldEffectiveSetpoint, r.EffectiveSetpoint)
	put(telemetry.FieldUserSetpoint, r.UserSetpoint)
	put(telemetry.FieldSupplyTemp, r.SupplyTemp)
	put(telemetry.FieldHeatOutput, r.HeatOutput)
	put(telemetry.FieldCoolOutput, r.CoolOutput)
	put(telemetry.FieldFanSpeed, r.FanSpeed)
	put(telemetry.FieldOccupancy, r.Occupancy)
	return m
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
