// Package metrics exposes pipeline counters and last-reading gauges as
// Prometheus metrics. The Metrics value is a pipeline sink.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beringar/fcu-observer/internal/derive"
	"github.com/beringar/fcu-observer/internal/pipeline"
	"github.com/beringar/fcu-observer/internal/telemetry"
)

// Metrics holds the observer's Prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	received   prometheus.Counter
	newData    prometheus.Counter
	duplicates prometheus.Counter
	malformed  prometheus.Counter

	interval prometheus.Histogram

	spaceTemp    prometheus.Gauge
	supplyTemp   prometheus.Gauge
	setpointGap  prometheus.Gauge
	heatOutput   prometheus.Gauge
	coolOutput   prometheus.Gauge
	runningState *prometheus.GaugeVec
	unitCount    prometheus.Gauge
}

// New creates and registers the observer metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fcu_messages_received_total",
			Help: "Well-formed snapshot messages processed.",
		}),
		newData: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fcu_messages_new_total",
			Help: "Messages whose data timestamp changed (new data).",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fcu_messages_duplicate_total",
			Help: "Messages repeating the previous data timestamp.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fcu_messages_malformed_total",
			Help: "Message bodies dropped as unparseable.",
		}),
		interval: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fcu_message_interval_seconds",
			Help:    "Wall-clock time between consecutive messages.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		spaceTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_space_temperature",
			Help: "Last space temperature reading of the focus unit.",
		}),
		supplyTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_supply_temperature",
			Help: "Last supply air temperature reading of the focus unit.",
		}),
		setpointGap: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_setpoint_gap",
			Help: "Last significant |user - effective| setpoint gap (0 when none).",
		}),
		heatOutput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_heat_output_percent",
			Help: "Last heating output of the focus unit.",
		}),
		coolOutput: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_cool_output_percent",
			Help: "Last cooling output of the focus unit.",
		}),
		runningState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fcu_running_state",
			Help: "1 for the focus unit's current running state, 0 otherwise.",
		}, []string{"state"}),
		unitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fcu_units_in_snapshot",
			Help: "Number of units present in the last snapshot.",
		}),
	}

	m.registry.MustRegister(
		m.received, m.newData, m.duplicates, m.malformed, m.interval,
		m.spaceTemp, m.supplyTemp, m.setpointGap, m.heatOutput,
		m.coolOutput, m.runningState, m.unitCount,
	)
	return m
}

// Record updates the instruments from one observation.
func (m *Metrics) Record(obs pipeline.Observation) error {
	m.received.Inc()
	if obs.IsNew {
		m.newData.Inc()
	} else {
		m.duplicates.Inc()
	}
	if obs.IntervalSeconds != nil {
		m.interval.Observe(*obs.IntervalSeconds)
	}
	m.unitCount.Set(float64(obs.UnitCount))

	if obs.Reading != nil {
		setGauge(m.spaceTemp, obs.Reading.SpaceTemp)
		setGauge(m.supplyTemp, obs.Reading.SupplyTemp)
		setGauge(m.heatOutput, obs.Reading.HeatOutput)
		setGauge(m.coolOutput, obs.Reading.CoolOutput)
	}
	if obs.Derived != nil {
		if obs.Derived.SetpointGap != nil {
			m.setpointGap.Set(*obs.Derived.SetpointGap)
		} else {
			m.setpointGap.Set(0)
		}
		for _, state := range []derive.RunningState{derive.StateHeating, derive.StateCooling, derive.StateIdle} {
			v := 0.0
			if state == obs.Derived.Running {
				v = 1.0
			}
			m.runningState.WithLabelValues(string(state)).Set(v)
		}
	}
	return nil
}

// RecordMalformed counts a dropped message body.
func (m *Metrics) RecordMalformed() {
	m.malformed.Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// setGauge sets g from a reading value, skipping absent, non-numeric and
// NaN values so the gauge keeps its last good reading.
func setGauge(g prometheus.Gauge, v *telemetry.Value) {
	if v != nil && v.IsUsable() {
		g.Set(v.Number)
	}
}
