package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"impactsim/internal/config"
	"impactsim/internal/logging"
	"impactsim/internal/sim"
)

var (
	runPrintOnly  bool
	runJSONOutput bool
	runConfigPath string
	runSchemaPath string
	runLogFile    string
	runCSVFile    string
	runTUI        bool
	runLogLevel   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the configured impact scenarios",
	Long:  "run evaluates every scenario in the configuration file and writes before/after result rows to the configured outputs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(runLogLevel)
		ctx := logging.NewContext(context.Background(), logger)

		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(runPrintOnly, runJSONOutput, runLogFile, runCSVFile)
		if err != nil {
			return err
		}
		defer cleanup()

		var tui *sim.TUIWriter
		if runTUI {
			tui = sim.NewTUIWriter()
			writer = sim.NewMultiWriter(writer, tui)
		}

		runner := sim.NewRunner(os.Getenv("RUN_ID"), cfg, writer)
		if err := runner.Run(ctx); err != nil {
			return err
		}
		logger.Info("run complete", "run_id", runner.RunID())

		if tui != nil {
			tui.Wait()
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runPrintOnly, "print-only", false, "Print results to STDOUT instead of writing to DB")
	runCmd.Flags().BoolVar(&runJSONOutput, "json", false, "Print results as JSON lines instead of formatted text")
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/scenario.yaml", "Path to scenario configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/scenario.cue", "Path to CUE schema file")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export result rows (JSONL)")
	runCmd.Flags().StringVar(&runCSVFile, "csv-file", "", "Path to export result rows (CSV)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show results in an interactive dashboard")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
