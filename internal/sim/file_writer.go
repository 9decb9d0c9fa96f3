package sim

import (
	"encoding/json"
	"os"

	"impactsim/internal/report"
)

// FileWriter writes result rows to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates a FileWriter, truncating any existing file at path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Write logs a single result row.
func (f *FileWriter) Write(row report.Row) error {
	return f.enc.Encode(row)
}

// WriteBatch logs multiple result rows.
func (f *FileWriter) WriteBatch(rows []report.Row) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	return f.file.Close()
}
