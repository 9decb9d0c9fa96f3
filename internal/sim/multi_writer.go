package sim

import "impactsim/internal/report"

// MultiWriter fans result rows out to multiple writers.
type MultiWriter struct {
	writers []ResultWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...ResultWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a result row to all writers.
func (mw *MultiWriter) Write(row report.Row) error {
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple rows to all writers, using batch mode where
// supported.
func (mw *MultiWriter) WriteBatch(rows []report.Row) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}
