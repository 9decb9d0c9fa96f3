package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"impactsim/internal/config"
	"impactsim/internal/logging"
	"impactsim/internal/report"
	"impactsim/internal/sim"
	"impactsim/internal/worker"
)

var (
	sweepPrintOnly  bool
	sweepJSONOutput bool
	sweepCSVFile    string
	sweepLogLevel   string
	sweepDiameters  []float64
	sweepVelocities []float64
	sweepDensity    float64
	sweepAngle      float64
	sweepWorkers    int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a diameter × velocity parameter grid",
	Long:  "sweep evaluates every combination of the given diameters and velocities concurrently and writes one result row per cell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(sweepLogLevel)
		ctx := logging.NewContext(context.Background(), logger)

		if len(sweepDiameters) == 0 || len(sweepVelocities) == 0 {
			return fmt.Errorf("at least one --diameter and one --velocity required")
		}

		writer, cleanup, err := newWriters(sweepPrintOnly, sweepJSONOutput, "", sweepCSVFile)
		if err != nil {
			return err
		}
		defer cleanup()

		runner := sim.NewRunner("", &config.SimulationConfig{}, writer)
		logger.Info("starting sweep",
			"run_id", runner.RunID(),
			"cells", len(sweepDiameters)*len(sweepVelocities),
			"workers", sweepWorkers)

		var mu sync.Mutex
		collected := make(map[int][]report.Row)
		var firstErr error

		pool := worker.NewPool(sweepWorkers, len(sweepDiameters)*len(sweepVelocities),
			func(ctx context.Context, job worker.Job) error {
				cmp, err := runner.Evaluate(job.Scenario)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("cell %s: %w", job.Scenario.Name, err)
					}
					mu.Unlock()
					return err
				}
				mu.Lock()
				collected[job.Index] = runner.Rows(cmp, job.Scenario)
				mu.Unlock()
				return nil
			})

		poolCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		pool.Start(poolCtx)

		idx := 0
		for _, d := range sweepDiameters {
			for _, v := range sweepVelocities {
				pool.Submit(worker.Job{
					Index: idx,
					Scenario: config.Scenario{
						Name: fmt.Sprintf("sweep-d%g-v%g", d, v),
						Asteroid: config.Asteroid{
							DiameterM:      d,
							VelocityMS:     v,
							DensityKgM3:    sweepDensity,
							ImpactAngleDeg: sweepAngle,
						},
					},
				})
				idx++
			}
		}
		pool.Stop()

		if firstErr != nil {
			return firstErr
		}

		// Grid order, not completion order.
		indices := make([]int, 0, len(collected))
		for i := range collected {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			for _, row := range collected[i] {
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
		logger.Info("sweep complete", "run_id", runner.RunID(), "cells", len(collected))
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepPrintOnly, "print-only", false, "Print results to STDOUT instead of writing to DB")
	sweepCmd.Flags().BoolVar(&sweepJSONOutput, "json", false, "Print results as JSON lines instead of formatted text")
	sweepCmd.Flags().StringVar(&sweepCSVFile, "csv-file", "", "Path to export result rows (CSV)")
	sweepCmd.Flags().StringVar(&sweepLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	sweepCmd.Flags().Float64SliceVar(&sweepDiameters, "diameter", nil, "Asteroid diameter in meters (repeatable)")
	sweepCmd.Flags().Float64SliceVar(&sweepVelocities, "velocity", nil, "Impact velocity in m/s (repeatable)")
	sweepCmd.Flags().Float64Var(&sweepDensity, "density", 3000, "Asteroid density in kg/m³")
	sweepCmd.Flags().Float64Var(&sweepAngle, "angle", 45, "Impact angle in degrees")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "Number of evaluation workers")
}
