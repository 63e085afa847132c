package telemetry

import (
	"reflect"
	"testing"
)

func detailedRecord() UnitRecord {
	return UnitRecord{
		"nvoSpaceTemp":   "23.2 °C {ok}",
		"nvoEffectSetpt": "22.0 °C {ok}",
		"nviSetpoint":    "22.5 °C {ok}",
		"nvoSupplyTemp":  "18.9 °C {ok}",
		"nvoHeatOutput":  "0.0 % {ok}",
		"nvoCoolOutput":  "15.0 % {ok}",
		"nvoFanSpeed":    "33.0 % {ok}",
		"nvoOccup":       "OC_OCCUPIED {ok}",
	}
}

func TestNormalizeDetailedRecord(t *testing.T) {
	n := NewNormalizer(nil)
	r := n.Normalize(detailedRecord())

	if r.SpaceTemp == nil || r.SpaceTemp.Number != 23.2 {
		t.Errorf("space temp: got %+v", r.SpaceTemp)
	}
	if r.EffectiveSetpoint == nil || r.EffectiveSetpoint.Number != 22.0 {
		t.Errorf("effective setpoint: got %+v", r.EffectiveSetpoint)
	}
	if r.UserSetpoint == nil || r.UserSetpoint.Number != 22.5 {
		t.Errorf("user setpoint: got %+v", r.UserSetpoint)
	}
	if r.HeatOutput == nil || !r.HeatOutput.Numeric || r.HeatOutput.Number != 0 {
		t.Errorf("heat output should be numeric zero, got %+v", r.HeatOutput)
	}
	if r.CoolOutput == nil || r.CoolOutput.Number != 15.0 {
		t.Errorf("cool output: got %+v", r.CoolOutput)
	}
	if r.Occupancy == nil || r.Occupancy.Numeric {
		t.Errorf("occupancy should be verbatim non-numeric, got %+v", r.Occupancy)
	}
}

func TestNormalizeHeatOutputAliases(t *testing.T) {
	// The same sensor appears under any of three names depending on
	// firmware mode; each must resolve to the same canonical field.
	for _, alias := range []string{"nvoHeatOutput", "nvoHeatPrimary", "nvoHeatOut"} {
		rec := UnitRecord{alias: "12.0 % {ok}"}
		r := NewNormalizer(nil).Normalize(rec)
		if r.HeatOutput == nil || r.HeatOutput.Number != 12.0 {
			t.Errorf("alias %s: expected 12.0, got %+v", alias, r.HeatOutput)
		}
	}
}

func TestNormalizeAliasPriority(t *testing.T) {
	// First alias in the chain wins when several are present.
	rec := UnitRecord{
		"nvoHeatOutput":  "7.0 % {ok}",
		"nvoHeatPrimary": "99.0 % {ok}",
	}
	r := NewNormalizer(nil).Normalize(rec)
	if r.HeatOutput == nil || r.HeatOutput.Number != 7.0 {
		t.Errorf("expected first alias to win, got %+v", r.HeatOutput)
	}
}

func TestNormalizePlaceholderFallsThrough(t *testing.T) {
	// An "N/A" value on the preferred alias falls through to the next.
	rec := UnitRecord{
		"nvoHeatOutput":  "N/A",
		"nvoHeatPrimary": "4.0 % {ok}",
	}
	r := NewNormalizer(nil).Normalize(rec)
	if r.HeatOutput == nil || r.HeatOutput.Number != 4.0 {
		t.Errorf("expected fallback alias, got %+v", r.HeatOutput)
	}
}

func TestNormalizeMissingFieldsAreNil(t *testing.T) {
	// Minimal firmware mode: most fields simply absent, never zero.
	rec := UnitRecord{"nvoSpaceTemp": "21.0 °C {ok}"}
	r := NewNormalizer(nil).Normalize(rec)
	if r.SpaceTemp == nil {
		t.Fatal("space temp should be present")
	}
	if r.HeatOutput != nil || r.CoolOutput != nil || r.SupplyTemp != nil ||
		r.UserSetpoint != nil || r.EffectiveSetpoint != nil || r.FanSpeed != nil || r.Occupancy != nil {
		t.Errorf("absent fields must be nil: %+v", r)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(nil)
	rec := detailedRecord()
	first := n.Normalize(rec)
	second := n.Normalize(rec)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizeConfiguredAliases(t *testing.T) {
	aliases := DefaultAliases().Merge(AliasTable{
		FieldSpaceTemp: {"roomTemp", "nvoSpaceTemp"},
	})
	rec := UnitRecord{"roomTemp": "19.5 °C {ok}", "nvoHeatOutput": "5.0 % {ok}"}
	r := NewNormalizer(aliases).Normalize(rec)
	if r.SpaceTemp == nil || r.SpaceTemp.Number != 19.5 {
		t.Errorf("configured alias not used: %+v", r.SpaceTemp)
	}
	// Untouched chains keep their defaults.
	if r.HeatOutput == nil || r.HeatOutput.Number != 5.0 {
		t.Errorf("default chain lost after merge: %+v", r.HeatOutput)
	}
}

func TestNormalizeStatusPreserved(t *testing.T) {
	rec := UnitRecord{"nvoSpaceTemp": "23.2 °C {fault}"}
	r := NewNormalizer(nil).Normalize(rec)
	if r.SpaceTemp == nil || r.SpaceTemp.Status != "fault" {
		t.Errorf("status word must travel with the number, got %+v", r.SpaceTemp)
	}
}
