// ColorStdoutWriter prints human-friendly, colorized result rows to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"impactsim/internal/report"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints result rows using ANSI colors. Colors are
// disabled automatically when STDOUT is not a terminal.
type ColorStdoutWriter struct {
	out   io.Writer
	color bool
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (w *ColorStdoutWriter) paint(color, s string) string {
	if !w.color {
		return s
	}
	return color + s + colorReset
}

// Write outputs one formatted result row.
func (w *ColorStdoutWriter) Write(row report.Row) error {
	labelColor := colorGreen
	if row.Label == report.LabelAfter {
		labelColor = colorCyan
	}
	_, err := fmt.Fprintf(w.out, "%s %s %s %s %s %s %s %s %s\n",
		w.paint(colorGray, "["+row.Timestamp.Format(time.RFC3339)+"]"),
		w.paint(colorBlue, "scenario="+row.Scenario),
		w.paint(labelColor, "label="+row.Label),
		w.paint(colorMagenta, "strategy="+row.Strategy),
		w.paint(colorYellow, fmt.Sprintf("energy=%.4g Mt", row.EnergyMegatons)),
		w.paint(colorYellow, fmt.Sprintf("crater=%.1f m", row.CraterDiameterM)),
		w.paint(colorRed, fmt.Sprintf("lethal=%.2f km", row.LethalRadiusM/1000)),
		w.paint(colorRed, fmt.Sprintf("moderate=%.2f km", row.ModerateRadiusM/1000)),
		w.paint(colorCyan, fmt.Sprintf("pop_lethal=%.0f", row.PopulationLethal)),
	)
	return err
}

// WriteBatch outputs multiple formatted result rows.
func (w *ColorStdoutWriter) WriteBatch(rows []report.Row) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
