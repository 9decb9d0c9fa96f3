package repository

import (
	"context"
	"time"
)

// Run is one persisted simulation record: a labeled impact result together
// with the full-precision JSON document it was served from.
type Run struct {
	ID              string
	Scenario        string
	Label           string // before | after
	Strategy        string
	DiameterM       float64
	VelocityMS      float64
	EnergyMegatons  float64
	CraterDiameterM float64
	Lat             *float64
	Lon             *float64
	Document        []byte // full report.Row JSON
	CreatedAt       time.Time
}

type Filter struct {
	Limit       int
	Offset      int
	Since       *time.Time
	Strategy    *string
	Label       *string
	MinMegatons *float64
	Scenario    *string
}

type RunRepository interface {
	Add(ctx context.Context, r *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListRuns(ctx context.Context, opts Filter) ([]Run, error)
}
