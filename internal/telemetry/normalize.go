package telemetry

// Canonical field names. These key the alias table and appear in config
// files, so they are stable identifiers, not display strings.
const (
	FieldSpaceTemp         = "space_temp"
	FieldEffectiveSetpoint = "effective_setpoint"
	FieldUserSetpoint      = "user_setpoint"
	FieldSupplyTemp        = "supply_temp"
	FieldHeatOutput        = "heat_output"
	FieldCoolOutput        = "cool_output"
	FieldFanSpeed          = "fan_speed"
	FieldOccupancy         = "occupancy"
)

// placeholder is the controller's marker for a field it knows about but
// has no reading for. Treated the same as an absent field.
const placeholder = "N/A"

// AliasTable maps a canonical field name to the firmware field names that
// may carry it, in priority order: the first alias present with a
// non-placeholder value wins.
type AliasTable map[string][]string

// DefaultAliases returns the alias chains observed across firmware modes
// in the field. Heat/cool output alone have three known spellings.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldSpaceTemp:         {"nvoSpaceTemp"},
		FieldEffectiveSetpoint: {"nvoEffectSetpt"},
		FieldUserSetpoint:      {"nviSetpoint"},
		FieldSupplyTemp:        {"nvoSupplyTemp"},
		FieldHeatOutput:        {"nvoHeatOutput", "nvoHeatPrimary", "nvoHeatOut"},
		FieldCoolOutput:        {"nvoCoolOutput", "nvoCoolPrimary", "nvoCoolOut"},
		FieldFanSpeed:          {"nvoFanSpeed", "nvoFanSpeed_state"},
		FieldOccupancy:         {"nvoOccup", "nvoEffectOccup"},
	}
}

// Merge overlays chains from other onto the table, replacing whole chains
// per canonical field. Used to apply config overrides on top of defaults.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	merged := make(AliasTable, len(t))
	for field, chain := range t {
		merged[field] = chain
	}
	for field, chain := range other {
		merged[field] = chain
	}
	return merged
}

// Reading holds the canonical extracted values for one unit. A nil field
// means "not reported" — deliberately distinct from a zero reading, which
// is a legitimate sensor value.
type Reading struct {
	SpaceTemp         *Value
	EffectiveSetpoint *Value
	UserSetpoint      *Value
	SupplyTemp        *Value
	HeatOutput        *Value
	CoolOutput        *Value
	FanSpeed          *Value
	Occupancy         *Value
}

// Normalizer extracts canonical readings from raw unit records using a
// configured alias table.
type Normalizer struct {
	aliases AliasTable
}

// NewNormalizer creates a Normalizer. A nil table selects the defaults.
func NewNormalizer(aliases AliasTable) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

// Normalize extracts the canonical fields from a unit record. Missing
// fields and placeholder values yield nil; everything else is decoded
// exactly once here, so downstream consumers never re-parse strings.
func (n *Normalizer) Normalize(rec UnitRecord) Reading {
	return Reading{
		SpaceTemp:         n.lookup(rec, FieldSpaceTemp),
		EffectiveSetpoint: n.lookup(rec, FieldEffectiveSetpoint),
		UserSetpoint:      n.lookup(rec, FieldUserSetpoint),
		SupplyTemp:        n.lookup(rec, FieldSupplyTemp),
		HeatOutput:        n.lookup(rec, FieldHeatOutput),
		CoolOutput:        n.lookup(rec, FieldCoolOutput),
		FanSpeed:          n.lookup(rec, FieldFanSpeed),
		Occupancy:         n.lookup(rec, FieldOccupancy),
	}
}

// lookup resolves one canonical field through its alias chain.
func (n *Normalizer) lookup(rec UnitRecord, field string) *Value {
	for _, alias := range n.aliases[field] {
		raw, ok := rec[alias]
		if !ok || raw == "" || raw == placeholder {
			continue
		}
		v := DecodeValue(raw)
		return &v
	}
	return nil
}
