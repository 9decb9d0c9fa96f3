package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run ID has no persisted record.
var ErrNotFound = errors.New("run not found")

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			label TEXT NOT NULL,
			strategy TEXT NOT NULL,
			diameter_m REAL NOT NULL,
			velocity_m_s REAL NOT NULL,
			energy_megatons REAL NOT NULL,
			crater_diameter_m REAL NOT NULL,
			latitude REAL,
			longitude REAL,
			document BLOB,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, r *Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, scenario, label, strategy,
			diameter_m, velocity_m_s, energy_megatons, crater_diameter_m,
			latitude, longitude, document, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Scenario, r.Label, r.Strategy,
		r.DiameterM, r.VelocityMS, r.EnergyMegatons, r.CraterDiameterM,
		r.Lat, r.Lon, r.Document, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting run: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, label, strategy,
			diameter_m, velocity_m_s, energy_megatons, crater_diameter_m,
			latitude, longitude, document, created_at
		FROM runs WHERE id = ?`, id)

	var r Run
	err := row.Scan(
		&r.ID, &r.Scenario, &r.Label, &r.Strategy,
		&r.DiameterM, &r.VelocityMS, &r.EnergyMegatons, &r.CraterDiameterM,
		&r.Lat, &r.Lon, &r.Document, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning run: %w", err)
	}
	return &r, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteDB) ListRuns(ctx context.Context, opts Filter) ([]Run, error) {
	query := `
		SELECT id, scenario, label, strategy,
			diameter_m, velocity_m_s, energy_megatons, crater_diameter_m,
			latitude, longitude, document, created_at
		FROM runs`

	var conds []string
	var args []any
	if opts.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *opts.Since)
	}
	if opts.Strategy != nil {
		conds = append(conds, "strategy = ?")
		args = append(args, *opts.Strategy)
	}
	if opts.Label != nil {
		conds = append(conds, "label = ?")
		args = append(args, *opts.Label)
	}
	if opts.Scenario != nil {
		conds = append(conds, "scenario = ?")
		args = append(args, *opts.Scenario)
	}
	if opts.MinMegatons != nil {
		conds = append(conds, "energy_megatons >= ?")
		args = append(args, *opts.MinMegatons)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Scenario, &r.Label, &r.Strategy,
			&r.DiameterM, &r.VelocityMS, &r.EnergyMegatons, &r.CraterDiameterM,
			&r.Lat, &r.Lon, &r.Document, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
