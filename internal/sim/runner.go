// Runner orchestrating scenario evaluation and result export
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"impactsim/internal/config"
	"impactsim/internal/impact"
	"impactsim/internal/logging"
	"impactsim/internal/population"
	"impactsim/internal/report"
)

// ResultWriter is an interface to support different output writers.
type ResultWriter interface {
	Write(report.Row) error
}

// Optional: writers can also support batch mode.
type batchWriter interface {
	WriteBatch([]report.Row) error
}

// Comparison pairs the before/after effects records for one scenario.
// After is nil when no mitigation was applied.
type Comparison struct {
	Scenario string
	Strategy string
	Before   impact.Result
	After    *impact.Result
}

// Runner evaluates configured scenarios and writes their row pairs.
type Runner struct {
	runID     string
	cfg       *config.SimulationConfig
	writer    ResultWriter
	densities population.Table
	now       func() time.Time
}

// NewRunner creates a Runner. An empty runID gets a generated UUID.
func NewRunner(runID string, cfg *config.SimulationConfig, writer ResultWriter) *Runner {
	if runID == "" {
		runID = uuid.New().String()
	}
	return &Runner{
		runID:     runID,
		cfg:       cfg,
		writer:    writer,
		densities: population.SampleTable(),
		now:       time.Now,
	}
}

// RunID returns the identifier stamped on every exported row.
func (r *Runner) RunID() string { return r.runID }

// Run evaluates every configured scenario in order and writes the results.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting run", "run_id", r.runID, "scenarios", len(r.cfg.Scenarios))

	for _, sc := range r.cfg.Scenarios {
		select {
		case <-ctx.Done():
			log.Info("run canceled", "run_id", r.runID)
			return ctx.Err()
		default:
		}

		cmp, err := r.Evaluate(sc)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		log.Info("scenario evaluated",
			"scenario", cmp.Scenario,
			"strategy", cmp.Strategy,
			"energy_megatons", cmp.Before.EnergyMegatons,
			"crater_m", cmp.Before.CraterDiameterM)

		if err := r.writeRows(r.Rows(cmp, sc)); err != nil {
			return fmt.Errorf("scenario %s: write: %w", sc.Name, err)
		}
	}
	return nil
}

// Evaluate computes the before record, applies the configured mitigation,
// and returns both. The after record always comes from the same Compute
// path as the before record.
func (r *Runner) Evaluate(sc config.Scenario) (Comparison, error) {
	before, err := impact.Compute(ToInput(sc.Asteroid))
	if err != nil {
		return Comparison{}, err
	}
	after, strategy, err := ApplyMitigation(before, sc.Mitigation)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		Scenario: sc.Name,
		Strategy: strategy,
		Before:   before,
		After:    after,
	}, nil
}

// Rows flattens a comparison into export rows, resolving the scenario's
// population density (explicit value wins over a named region).
func (r *Runner) Rows(cmp Comparison, sc config.Scenario) []report.Row {
	density := sc.PopulationDensityPerKm2
	if density <= 0 && sc.PopulationRegion != "" {
		density = r.densities.Lookup(sc.PopulationRegion)
	}
	ts := r.now().UTC()

	rows := []report.Row{
		report.FromResult(r.runID, cmp.Scenario, report.LabelBefore, cmp.Strategy, cmp.Before, density, ts),
	}
	if cmp.After != nil {
		rows = append(rows,
			report.FromResult(r.runID, cmp.Scenario, report.LabelAfter, cmp.Strategy, *cmp.After, density, ts))
	}
	return rows
}

func (r *Runner) writeRows(rows []report.Row) error {
	if bw, ok := r.writer.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, row := range rows {
		if err := r.writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ToInput converts a configured asteroid into a model input.
func ToInput(a config.Asteroid) impact.Input {
	return impact.Input{
		DiameterM:      a.DiameterM,
		VelocityMS:     a.VelocityMS,
		DensityKgM3:    a.DensityKgM3,
		ImpactAngleDeg: a.ImpactAngleDeg,
		Lat:            a.Lat,
		Lon:            a.Lon,
	}
}

// ApplyMitigation dispatches to the configured mitigation operator. It
// returns a nil result for the "none" strategy and the canonical strategy
// name actually applied.
func ApplyMitigation(prior impact.Result, m config.Mitigation) (*impact.Result, string, error) {
	switch m.Strategy {
	case "", config.StrategyNone:
		return nil, config.StrategyNone, nil
	case config.StrategyKineticImpact:
		res, err := impact.KineticImpactor(prior, m.VelocityReductionPct)
		if err != nil {
			return nil, "", err
		}
		return &res, m.Strategy, nil
	case config.StrategyNuclear:
		res, err := impact.NuclearDeflection(prior, m.EnergyReductionPct)
		if err != nil {
			return nil, "", err
		}
		return &res, m.Strategy, nil
	case config.StrategyFragmentation:
		res, err := impact.Fragmentation(prior, m.FragmentCount)
		if err != nil {
			return nil, "", err
		}
		return &res, m.Strategy, nil
	default:
		return nil, "", fmt.Errorf("unknown mitigation strategy %q", m.Strategy)
	}
}
