package main

import (
	"os"

	"impactsim/internal/sim"
)

// newWriters sets up result writers based on flags and env vars. It returns
// the combined writer and a cleanup function to close any resources.
func newWriters(printOnly bool, jsonOutput bool, logFile, csvFile string) (sim.ResultWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly, jsonOutput)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" && csvFile == "" {
		return writer, cleanup, nil
	}

	writers := []sim.ResultWriter{writer}
	var closers []func()
	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		closers = append(closers, func() { fw.Close() })
	}
	if csvFile != "" {
		cw, err := sim.NewCSVWriter(csvFile)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		writers = append(writers, cw)
		closers = append(closers, func() { cw.Close() })
	}

	cleanup = func() {
		for _, c := range closers {
			c()
		}
	}
	return sim.NewMultiWriter(writers...), cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly flag and env vars.
func baseWriter(printOnly bool, jsonOutput bool) (sim.ResultWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if jsonOutput {
			return sim.NewJSONStdoutWriter(), nil
		}
		return sim.NewColorStdoutWriter(), nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return sim.NewGreptimeWriter(endpoint, database, os.Getenv("GREPTIMEDB_TABLE"))
}
