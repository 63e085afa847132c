package pipeline

import "errors"

// MultiSink fans one observation out to several sinks in order. Every
// sink sees every observation even when an earlier one fails; the errors
// are joined.
type MultiSink []Sink

// Record delivers the observation to each sink.
func (m MultiSink) Record(obs Observation) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(obs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FakeSink records observations for test assertions.
type FakeSink struct {
	// Observations contains everything recorded, in order.
	Observations []Observation

	// RecordError, if set, will be returned by Record. The observation is
	// still appended so tests can assert on it.
	RecordError error
}

// NewFakeSink creates a FakeSink for testing.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Record appends the observation.
func (f *FakeSink) Record(obs Observation) error {
	f.Observations = append(f.Observations, obs)
	return f.RecordError
}

// Last returns the most recent observation, or a zero Observation if none.
func (f *FakeSink) Last() Observation {
	if len(f.Observations) == 0 {
		return Observation{}
	}
	return f.Observations[len(f.Observations)-1]
}

// Reset clears recorded observations.
func (f *FakeSink) Reset() {
	f.Observations = nil
	f.RecordError = nil
}
