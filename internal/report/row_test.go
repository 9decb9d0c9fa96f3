package report

import (
	"strconv"
	"testing"
	"time"

	"impactsim/internal/impact"
	"impactsim/internal/population"
)

func sampleResult(t *testing.T) impact.Result {
	t.Helper()
	lat, lon := 48.2082, 16.3738
	res, err := impact.Compute(impact.Input{
		DiameterM:      50,
		VelocityMS:     20000,
		DensityKgM3:    3000,
		ImpactAngleDeg: 45,
		Lat:            &lat,
		Lon:            &lon,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return res
}

func TestFromResult(t *testing.T) {
	res := sampleResult(t)
	ts := time.Unix(0, 0).UTC()
	row := FromResult("run-1", "city-killer", LabelBefore, "kinetic_impactor", res, 100, ts)

	if row.RunID != "run-1" || row.Scenario != "city-killer" || row.Label != LabelBefore {
		t.Errorf("identity fields wrong: %+v", row)
	}
	if row.EnergyJoules != res.EnergyJoules || row.CraterDiameterM != res.CraterDiameterM {
		t.Errorf("outputs not carried over: %+v", row)
	}
	if row.Lat == nil || *row.Lat != 48.2082 {
		t.Errorf("lat not carried over: %+v", row.Lat)
	}
	if row.PopulationLethal != res.AffectedAreas.LethalKm2*100 {
		t.Errorf("population_lethal = %g, want %g", row.PopulationLethal, res.AffectedAreas.LethalKm2*100)
	}
}

func TestFromResultDensityFallback(t *testing.T) {
	res := sampleResult(t)
	row := FromResult("run-1", "s", LabelBefore, "none", res, 0, time.Now())
	if row.DensityPerKm2 != population.DefaultDensityPerKm2 {
		t.Errorf("density = %g, want default %g", row.DensityPerKm2, population.DefaultDensityPerKm2)
	}
}

func TestRecordMatchesHeader(t *testing.T) {
	res := sampleResult(t)
	row := FromResult("run-1", "s", LabelAfter, "fragmentation", res, 60, time.Now())
	if len(row.Record()) != len(Header()) {
		t.Fatalf("record has %d fields, header has %d", len(row.Record()), len(Header()))
	}
}

func TestRecordPreservesPrecision(t *testing.T) {
	res := sampleResult(t)
	row := FromResult("run-1", "s", LabelBefore, "none", res, 60, time.Now())
	rec := row.Record()

	// energy_joules is column 11; parsing it back must be lossless.
	back, err := strconv.ParseFloat(rec[11], 64)
	if err != nil {
		t.Fatalf("parse energy: %v", err)
	}
	if back != row.EnergyJoules {
		t.Errorf("energy round-trip lost precision: %v != %v", back, row.EnergyJoules)
	}
}

func TestRecordAbsentLocation(t *testing.T) {
	res, err := impact.Compute(impact.Input{DiameterM: 1, VelocityMS: 1, DensityKgM3: 1, ImpactAngleDeg: 45})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	row := FromResult("run-1", "s", LabelBefore, "none", res, 60, time.Now())
	rec := row.Record()
	if rec[8] != "" || rec[9] != "" {
		t.Errorf("expected empty lat/lon fields, got %q %q", rec[8], rec[9])
	}
}

func TestRowTableName(t *testing.T) {
	orig := ResultTableName
	ResultTableName = "custom"
	defer func() { ResultTableName = orig }()
	if (Row{}).TableName() != "custom" {
		t.Errorf("expected custom table name, got %s", (Row{}).TableName())
	}
}
