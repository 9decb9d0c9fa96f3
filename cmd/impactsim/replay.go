package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"impactsim/internal/sim"
)

var (
	replayInput      string
	replaySpeed      float64
	replayPrintOnly  bool
	replayJSONOutput bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a result log file",
	Long:  "replay feeds result rows from a JSONL log file back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, err := baseWriter(replayPrintOnly, replayJSONOutput)
		if err != nil {
			return err
		}
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to result log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print results to STDOUT instead of writing to DB")
	replayCmd.Flags().BoolVar(&replayJSONOutput, "json", false, "Print results as JSON lines instead of formatted text")
	replayCmd.MarkFlagRequired("input")
}
