// Package derive computes operational signals from normalized FCU
// readings. Pure functions only — no I/O, no clocks, no state.
package derive

import (
	"math"

	"github.com/beringar/fcu-observer/internal/telemetry"
)

// RunningState classifies what a unit is actively doing.
type RunningState string

const (
	StateHeating RunningState = "HEATING"
	StateCooling RunningState = "COOLING"
	StateIdle    RunningState = "IDLE"
)

// GapThreshold is the minimum |user − effective| setpoint difference
// worth reporting. Differences at or below it are sensor/transmission
// noise, not a real tracking gap.
const GapThreshold = 0.1

// Status holds the derived signals for one reading. SetpointGap is nil
// when either setpoint is missing/non-numeric or the gap is within the
// noise threshold ("no significant gap", not "unknown").
type Status struct {
	Running     RunningState
	SetpointGap *float64
}

// Derive computes the running state and setpoint gap for a reading.
// Heating takes priority over cooling when both outputs are (abnormally)
// positive.
func Derive(r telemetry.Reading) Status {
	return Status{
		Running:     runningState(r),
		SetpointGap: setpointGap(r),
	}
}

func runningState(r telemetry.Reading) RunningState {
	if positive(r.HeatOutput) {
		return StateHeating
	}
	if positive(r.CoolOutput) {
		return StateCooling
	}
	return StateIdle
}

// positive reports whether v carries a numeric value strictly greater
// than zero. NaN compares false, so a faulted "nan" output reads as
// not running.
func positive(v *telemetry.Value) bool {
	return v != nil && v.Numeric && v.Number > 0
}

func setpointGap(r telemetry.Reading) *float64 {
	user := r.UserSetpoint
	eff := r.EffectiveSetpoint
	if user == nil || eff == nil || !user.Numeric || !eff.Numeric {
		return nil
	}
	gap := math.Abs(user.Number - eff.Number)
	if !(gap > GapThreshold) { // also rejects NaN
		return nil
	}
	return &gap
}
