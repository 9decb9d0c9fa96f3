package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"impactsim/internal/impact"
	"impactsim/internal/report"
)

func sampleRows(t *testing.T) []report.Row {
	t.Helper()
	res, err := impact.Compute(impact.Input{
		DiameterM:      50,
		VelocityMS:     20000,
		DensityKgM3:    3000,
		ImpactAngleDeg: 45,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []report.Row{
		report.FromResult("run-1", "city-killer", report.LabelBefore, "kinetic_impactor", res, 60, ts),
		report.FromResult("run-1", "city-killer", report.LabelAfter, "kinetic_impactor", res, 60, ts.Add(2*time.Second)),
	}
}

func TestFileWriterWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	rows := sampleRows(t)
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []report.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var row report.Row
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, row)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d lines, got %d", len(rows), len(got))
	}
	if got[0].Scenario != "city-killer" || got[0].Label != report.LabelBefore {
		t.Errorf("unexpected first row: %+v", got[0])
	}
	if got[1].EnergyJoules != rows[1].EnergyJoules {
		t.Errorf("energy round-trip mismatch: %g != %g", got[1].EnergyJoules, rows[1].EnergyJoules)
	}
}
