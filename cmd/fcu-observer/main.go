// Command fcu-observer subscribes to the FCU fleet snapshot topic and logs
// per-message observations for one focus unit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/beringar/fcu-observer/internal/config"
	"github.com/beringar/fcu-observer/internal/metrics"
	"github.com/beringar/fcu-observer/internal/mqtt"
	"github.com/beringar/fcu-observer/internal/pipeline"
	"github.com/beringar/fcu-observer/internal/sequence"
	"github.com/beringar/fcu-observer/internal/status"
	"github.com/beringar/fcu-observer/internal/telemetry"
	"github.com/beringar/fcu-observer/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	envFile := flag.String("env", "", "Optional .env file with MQTT credentials")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	focusUnit := flag.String("focus", "", "Focus unit ID (overrides config)")
	printConfig := flag.Bool("print-config", false, "Print effective config and exit")

	flag.Parse()

	if err := run(*configPath, *envFile, *httpAddr, *focusUnit, *printConfig); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(configPath, envFile, httpAddr, focusUnit string, printConfig bool) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if focusUnit != "" {
		cfg.FocusUnit = focusUnit
	}

	// Print config mode (password withheld)
	if printConfig {
		fmt.Printf("broker: %s\ntopic: %s\nfocus unit: %s\nhttp: %s\n",
			cfg.Broker().BrokerURL(), cfg.MQTT.Topic, cfg.FocusUnit, cfg.HTTP.Addr)
		return nil
	}

	// Initialize status tracker and metrics (before connecting so the
	// HTTP surface never sees a half-wired state)
	m := metrics.New()
	tracker := status.NewTracker(time.Now(), status.Config{
		Broker:    cfg.Broker().BrokerURL(),
		Topic:     cfg.MQTT.Topic,
		FocusUnit: cfg.FocusUnit,
		HTTPAddr:  cfg.HTTP.Addr,
	})

	// Connect and subscribe. Connect failures are fatal; retry policy
	// belongs to whatever supervises this process.
	sub, err := mqtt.NewRealSubscriber(cfg.Broker())
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sub.Close()
	tracker.SetMQTTConnected(true)

	dispatcher := pipeline.New(
		cfg.FocusUnit,
		sequence.New(),
		telemetry.NewNormalizer(cfg.Aliases()),
		pipeline.MultiSink{logSink{}, tracker, m},
	)

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: broker=%s topic=%s focus=%s",
		cfg.Broker().BrokerURL(), cfg.MQTT.Topic, cfg.FocusUnit)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sub, dispatcher, tracker, m, sigCh)
}

// runLoop drains the subscriber until a signal or the connection drops.
// Messages are handled to completion one at a time; ArrivalRecord state
// inside the dispatcher relies on that.
func runLoop(sub mqtt.Subscriber, dispatcher *pipeline.Dispatcher, tracker *status.Tracker, m *metrics.Metrics, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			logSummary(tracker)
			return nil

		case err := <-sub.ConnectionLost():
			if tracker != nil {
				tracker.SetMQTTConnected(false)
			}
			logSummary(tracker)
			return fmt.Errorf("connection lost: %w", err)

		case msg, ok := <-sub.Messages():
			if !ok {
				logSummary(tracker)
				return nil
			}
			if _, err := dispatcher.Handle(msg.Payload, msg.ReceivedAt); err != nil {
				if errors.Is(err, pipeline.ErrMalformedPayload) {
					if tracker != nil {
						tracker.RecordMalformed()
					}
					if m != nil {
						m.RecordMalformed()
					}
				}
				// Per-message failures never end the run
				log.Printf("handle message: %v", err)
			}
		}
	}
}

func logSummary(tracker *status.Tracker) {
	if tracker == nil {
		return
	}
	c := tracker.Snapshot().Counts
	log.Printf("summary: %d messages received (%d new, %d duplicate, %d malformed)",
		c.Received, c.New, c.Duplicate, c.Malformed)
}

// logSink writes one line per observation. This is the observer's primary
// output, mirroring what an operator watches in the journal.
type logSink struct{}

func (logSink) Record(obs pipeline.Observation) error {
	log.Printf("message #%d: %s", obs.MessageCount, formatObservation(obs))
	return nil
}

func formatObservation(obs pipeline.Observation) string {
	var b strings.Builder
	if obs.IsNew {
		b.WriteString("NEW")
	} else {
		b.WriteString("DUPLICATE")
	}
	fmt.Fprintf(&b, " data_ts=%s bytes=%d units=%d", obs.DataTimestamp, obs.PayloadBytes, obs.UnitCount)
	if obs.IntervalSeconds != nil {
		fmt.Fprintf(&b, " interval=%.1fs", *obs.IntervalSeconds)
	}
	if obs.Derived == nil {
		b.WriteString(" focus_unit=absent")
		return b.String()
	}
	fmt.Fprintf(&b, " state=%s", obs.Derived.Running)
	if obs.Derived.SetpointGap != nil {
		fmt.Fprintf(&b, " setpoint_gap=%.1f", *obs.Derived.SetpointGap)
	}
	if r := obs.Reading; r != nil && r.SpaceTemp != nil {
		fmt.Fprintf(&b, " space_temp=%s", r.SpaceTemp.String())
	}
	return b.String()
}
