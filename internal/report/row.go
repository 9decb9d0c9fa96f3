// Export row shapes for impact results, with greptime tags
package report

import (
	"os"
	"strconv"
	"time"

	"impactsim/internal/impact"
	"impactsim/internal/population"
)

// Scenario labels for the before/after pair of one run.
const (
	LabelBefore = "before"
	LabelAfter  = "after"
)

// Row flattens one labeled impact result into a single wide record for
// export or ingestion. Numeric fields keep full float64 precision; energies
// span single digits to 10¹⁸+ joules.
type Row struct {
	RunID    string `json:"run_id"`   // TAG
	Scenario string `json:"scenario"` // TAG
	Label    string `json:"label"`    // before | after
	Strategy string `json:"strategy"`

	DiameterM      float64  `json:"diameter_m"`
	VelocityMS     float64  `json:"velocity_m_s"`
	DensityKgM3    float64  `json:"density_kg_m3"`
	ImpactAngleDeg float64  `json:"impact_angle_deg"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`

	MassKg          float64 `json:"mass_kg"`
	EnergyJoules    float64 `json:"energy_joules"`
	EnergyMegatons  float64 `json:"energy_megatons"`
	CraterDiameterM float64 `json:"crater_diameter_m"`

	LethalRadiusM   float64 `json:"lethal_radius_m"`
	LethalAreaKm2   float64 `json:"lethal_area_km2"`
	SevereRadiusM   float64 `json:"severe_radius_m"`
	SevereAreaKm2   float64 `json:"severe_area_km2"`
	ModerateRadiusM float64 `json:"moderate_radius_m"`
	ModerateAreaKm2 float64 `json:"moderate_area_km2"`

	DensityPerKm2      float64 `json:"population_density_per_km2"`
	PopulationLethal   float64 `json:"population_lethal"`
	PopulationSevere   float64 `json:"population_severe"`
	PopulationModerate float64 `json:"population_moderate"`

	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// ResultTableName holds the table name used when writing rows to GreptimeDB.
// It defaults to "impact_results" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var ResultTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "impact_results"
}()

func (Row) TableName() string {
	return ResultTableName
}

// FromResult flattens a computed result into a Row. densityPerKm2 feeds the
// per-zone exposure estimates; non-positive values fall back to the
// population package default.
func FromResult(runID, scenario, label, strategy string, res impact.Result, densityPerKm2 float64, ts time.Time) Row {
	if densityPerKm2 <= 0 {
		densityPerKm2 = population.DefaultDensityPerKm2
	}
	return Row{
		RunID:    runID,
		Scenario: scenario,
		Label:    label,
		Strategy: strategy,

		DiameterM:      res.Input.DiameterM,
		VelocityMS:     res.Input.VelocityMS,
		DensityKgM3:    res.Input.DensityKgM3,
		ImpactAngleDeg: res.Input.ImpactAngleDeg,
		Lat:            res.Input.Lat,
		Lon:            res.Input.Lon,

		MassKg:          res.MassKg,
		EnergyJoules:    res.EnergyJoules,
		EnergyMegatons:  res.EnergyMegatons,
		CraterDiameterM: res.CraterDiameterM,

		LethalRadiusM:   res.DamageRadii.LethalM,
		LethalAreaKm2:   res.AffectedAreas.LethalKm2,
		SevereRadiusM:   res.DamageRadii.SevereM,
		SevereAreaKm2:   res.AffectedAreas.SevereKm2,
		ModerateRadiusM: res.DamageRadii.ModerateM,
		ModerateAreaKm2: res.AffectedAreas.ModerateKm2,

		DensityPerKm2:      densityPerKm2,
		PopulationLethal:   population.Estimate(res.AffectedAreas.LethalKm2, densityPerKm2),
		PopulationSevere:   population.Estimate(res.AffectedAreas.SevereKm2, densityPerKm2),
		PopulationModerate: population.Estimate(res.AffectedAreas.ModerateKm2, densityPerKm2),

		Timestamp: ts,
	}
}

// Header returns the CSV column names, in Record order.
func Header() []string {
	return []string{
		"run_id", "scenario", "label", "strategy",
		"diameter_m", "velocity_m_s", "density_kg_m3", "impact_angle_deg", "lat", "lon",
		"mass_kg", "energy_joules", "energy_megatons", "crater_diameter_m",
		"lethal_radius_m", "lethal_area_km2",
		"severe_radius_m", "severe_area_km2",
		"moderate_radius_m", "moderate_area_km2",
		"population_density_per_km2", "population_lethal", "population_severe", "population_moderate",
		"ts",
	}
}

// Record renders the row as CSV fields. Floats use the shortest
// representation that round-trips, so no precision is lost in export.
func (r Row) Record() []string {
	return []string{
		r.RunID, r.Scenario, r.Label, r.Strategy,
		ftoa(r.DiameterM), ftoa(r.VelocityMS), ftoa(r.DensityKgM3), ftoa(r.ImpactAngleDeg),
		optFtoa(r.Lat), optFtoa(r.Lon),
		ftoa(r.MassKg), ftoa(r.EnergyJoules), ftoa(r.EnergyMegatons), ftoa(r.CraterDiameterM),
		ftoa(r.LethalRadiusM), ftoa(r.LethalAreaKm2),
		ftoa(r.SevereRadiusM), ftoa(r.SevereAreaKm2),
		ftoa(r.ModerateRadiusM), ftoa(r.ModerateAreaKm2),
		ftoa(r.DensityPerKm2), ftoa(r.PopulationLethal), ftoa(r.PopulationSevere), ftoa(r.PopulationModerate),
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func optFtoa(v *float64) string {
	if v == nil {
		return ""
	}
	return ftoa(*v)
}
