package telemetry

import (
	"math"
	"regexp"
	"strconv"
)

// StatusOK is the status word assumed when an encoded value carries no
// bracketed annotation.
const StatusOK = "ok"

// Encoded value grammar: a leading numeric token (or the literal "nan"),
// optionally followed by a unit and a "{status}" annotation, e.g.
// "23.2 °C {ok}", "0.0 % {ok}", "nan {fault}". The number pattern is
// anchored: trailing text never turns a leading number into garbage.
var (
	numberPattern = regexp.MustCompile(`^(nan|\d+(?:\.\d+)?)`)
	statusPattern = regexp.MustCompile(`\{([^}]+)\}`)
)

// Value is one decoded field value: a numeric reading tagged with the
// status word the controller attached to it. A value whose status is
// "fault" is not interchangeable with the same number tagged "ok", so the
// pair travels together from the normalization boundary onward.
type Value struct {
	// Raw is the encoded string as received.
	Raw string
	// Number holds the decoded reading. Only meaningful when Numeric is
	// true; it may be NaN (firmware reports "nan" for dead sensors).
	Number float64
	// Numeric reports whether a leading numeric token was found. When
	// false the field is surfaced verbatim through Raw and callers must
	// not do arithmetic with Number.
	Numeric bool
	// Status is the bracketed status word, or StatusOK when absent.
	Status string
}

// DecodeValue parses one encoded field string. It never fails: an encoded
// string with no parseable leading number comes back verbatim with
// Numeric=false, which is a per-field condition, not a message error.
func DecodeValue(raw string) Value {
	v := Value{Raw: raw, Status: StatusOK}

	if m := statusPattern.FindStringSubmatch(raw); m != nil {
		v.Status = m[1]
	}

	tok := numberPattern.FindString(raw)
	if tok == "" {
		return v
	}
	if tok == "nan" {
		v.Number = math.NaN()
		v.Numeric = true
		return v
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return v
	}
	v.Number = n
	v.Numeric = true
	return v
}

// IsUsable reports whether the value carries a real (non-NaN) number.
func (v Value) IsUsable() bool {
	return v.Numeric && !math.IsNaN(v.Number)
}

// String renders the decoded pair for logs and status pages, e.g.
// "23.2 {ok}". Non-numeric values render verbatim.
func (v Value) String() string {
	if !v.Numeric {
		return v.Raw
	}
	if math.IsNaN(v.Number) {
		return "nan {" + v.Status + "}"
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64) + " {" + v.Status + "}"
}
