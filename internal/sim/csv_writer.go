package sim

import (
	"encoding/csv"
	"os"

	"impactsim/internal/report"
)

// CSVWriter writes result rows to a CSV file with a header, matching the
// snapshot-export format of the interactive tooling.
type CSVWriter struct {
	file *os.File
	csv  *csv.Writer
}

// NewCSVWriter creates a CSVWriter and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &CSVWriter{file: f, csv: csv.NewWriter(f)}
	if err := w.csv.Write(report.Header()); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Write appends a single result row.
func (w *CSVWriter) Write(row report.Row) error {
	return w.csv.Write(row.Record())
}

// WriteBatch appends multiple result rows.
func (w *CSVWriter) WriteBatch(rows []report.Row) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
