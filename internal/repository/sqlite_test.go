package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testRun(id, scenario, strategy string, megatons float64, created time.Time) *Run {
	return &Run{
		ID:              id,
		Scenario:        scenario,
		Label:           "before",
		Strategy:        strategy,
		DiameterM:       50,
		VelocityMS:      20000,
		EnergyMegatons:  megatons,
		CraterDiameterM: 420,
		Document:        []byte(`{"scenario":"` + scenario + `"}`),
		CreatedAt:       created,
	}
}

func TestSQLiteDB_AddAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	lat, lon := 28.6, 77.2
	run := testRun("run_123", "city-killer", "kinetic_impactor", 9.38, time.Now())
	run.Lat = &lat
	run.Lon = &lon

	if err := db.Add(ctx, run); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "run_123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Scenario != "city-killer" {
		t.Errorf("expected scenario 'city-killer', got '%s'", got.Scenario)
	}
	if got.Lat == nil || *got.Lat != lat {
		t.Errorf("latitude round-trip failed: %v", got.Lat)
	}
	if string(got.Document) != string(run.Document) {
		t.Errorf("document round-trip failed: %s", got.Document)
	}
}

func TestSQLiteDB_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_Exists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	exists, err := db.Exists(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected false for nonexistent ID")
	}

	db.Add(ctx, testRun("exists_test", "test", "none", 1, time.Now()))

	exists, err = db.Exists(ctx, "exists_test")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected true for existing ID")
	}
}

func TestSQLiteDB_ListRuns_WithFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	runs := []*Run{
		testRun("r1", "city-killer", "kinetic_impactor", 9.4, now.Add(-2*time.Hour)),
		testRun("r2", "city-killer", "none", 12.0, now.Add(-1*time.Hour)),
		testRun("r3", "tunguska", "fragmentation", 0.5, now),
	}
	for _, r := range runs {
		if err := db.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	strategy := "kinetic_impactor"
	results, err := db.ListRuns(ctx, Filter{Strategy: &strategy})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r1" {
		t.Errorf("strategy filter: got %d results", len(results))
	}

	minMt := 5.0
	results, err = db.ListRuns(ctx, Filter{MinMegatons: &minMt})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 runs with >= 5 Mt, got %d", len(results))
	}

	since := now.Add(-30 * time.Minute)
	results, err = db.ListRuns(ctx, Filter{Since: &since})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r3" {
		t.Errorf("since filter: got %d results", len(results))
	}

	scenario := "city-killer"
	results, err = db.ListRuns(ctx, Filter{Scenario: &scenario, Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r2" {
		t.Errorf("scenario filter with limit: expected newest run r2, got %+v", results)
	}
}

func TestSQLiteDB_ListRuns_Ordering(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	db.Add(ctx, testRun("old", "a", "none", 1, now.Add(-time.Hour)))
	db.Add(ctx, testRun("new", "a", "none", 1, now))

	results, err := db.ListRuns(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(results) != 2 || results[0].ID != "new" {
		t.Errorf("expected newest first, got %+v", results)
	}
}

func TestSQLiteDB_DuplicateAdd(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	run := testRun("dup", "a", "none", 1, time.Now())
	if err := db.Add(ctx, run); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := db.Add(ctx, run); err == nil {
		t.Error("expected error on duplicate primary key")
	}
}
