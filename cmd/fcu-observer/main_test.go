package main

import (
	"errors"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/beringar/fcu-observer/internal/derive"
	"github.com/beringar/fcu-observer/internal/mqtt"
	"github.com/beringar/fcu-observer/internal/pipeline"
	"github.com/beringar/fcu-observer/internal/sequence"
	"github.com/beringar/fcu-observer/internal/status"
	"github.com/beringar/fcu-observer/internal/telemetry"
)

func testDispatcher(sink pipeline.Sink) *pipeline.Dispatcher {
	return pipeline.New("fCU_01_04", sequence.New(), telemetry.NewNormalizer(nil), sink)
}

func TestRunLoopConnectionLostEndsRun(t *testing.T) {
	sub := mqtt.NewFakeSubscriber(4)
	sink := pipeline.NewFakeSink()
	sub.Deliver([]byte(`{"timestamp": "ts-1", "status": {}}`), time.Now())
	sub.DropConnection(errors.New("broker went away"))

	tracker := status.NewTracker(time.Now(), status.Config{})
	sig := make(chan os.Signal)

	err := runLoop(sub, testDispatcher(pipeline.MultiSink{sink, tracker}), tracker, nil, sig)
	if err == nil {
		t.Fatal("connection loss must end the run with an error")
	}
	if !strings.Contains(err.Error(), "connection lost") {
		t.Errorf("error: got %v", err)
	}
	if tracker.Snapshot().MQTTConnected {
		t.Error("tracker must show disconnected")
	}
}

func TestRunLoopSignalShutsDownCleanly(t *testing.T) {
	sub := mqtt.NewFakeSubscriber(1)
	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	tracker := status.NewTracker(time.Now(), status.Config{})
	err := runLoop(sub, testDispatcher(pipeline.NewFakeSink()), tracker, nil, sig)
	if err != nil {
		t.Fatalf("signal shutdown must be clean: %v", err)
	}
}

func TestRunLoopMalformedMessagesAreIsolated(t *testing.T) {
	sub := mqtt.NewFakeSubscriber(4)
	sub.Deliver([]byte(`garbage`), time.Now())
	sub.Deliver([]byte(`{"timestamp": "ts-1", "status": {}}`), time.Now())
	sub.EndOfMessages()

	sink := pipeline.NewFakeSink()
	tracker := status.NewTracker(time.Now(), status.Config{})

	err := runLoop(sub, testDispatcher(pipeline.MultiSink{sink, tracker}), tracker, nil, nil)
	if err != nil {
		t.Fatalf("run loop: %v", err)
	}
	if len(sink.Observations) != 1 {
		t.Fatalf("expected the valid message to be processed, got %d observations", len(sink.Observations))
	}
	snap := tracker.Snapshot()
	if snap.Counts.Malformed != 1 || snap.Counts.Received != 1 {
		t.Errorf("counts: %+v", snap.Counts)
	}
}

func TestFormatObservation(t *testing.T) {
	interval := 20.3
	gap := 0.5
	space := telemetry.DecodeValue("23.2 °C {ok}")

	obs := pipeline.Observation{
		MessageCount:    7,
		DataTimestamp:   "2026-08-26T10:00:00",
		IsNew:           true,
		IntervalSeconds: &interval,
		PayloadBytes:    4096,
		UnitCount:       49,
		Reading:         &telemetry.Reading{SpaceTemp: &space},
		Derived:         &derive.Status{Running: derive.StateHeating, SetpointGap: &gap},
	}

	line := formatObservation(obs)
	for _, want := range []string{"NEW", "data_ts=2026-08-26T10:00:00", "bytes=4096", "units=49", "interval=20.3s", "state=HEATING", "setpoint_gap=0.5", "space_temp=23.2 {ok}"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatObservationFocusAbsent(t *testing.T) {
	obs := pipeline.Observation{MessageCount: 1, DataTimestamp: "ts-1"}
	line := formatObservation(obs)
	if !strings.Contains(line, "focus_unit=absent") {
		t.Errorf("line %q missing absence marker", line)
	}
	if !strings.Contains(line, "NEW") && !strings.Contains(line, "DUPLICATE") {
		t.Errorf("line %q missing verdict", line)
	}
}
