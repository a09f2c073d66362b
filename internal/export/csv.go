// Package export serializes decay series as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Makepad-fr/halflife/internal/decay"
)

// DefaultPrecision is the number of significant digits written per value.
// ShortestPrecision asks for the shortest exact representation instead;
// MaxPrecision is the most digits a float64 carries.
const (
	DefaultPrecision  = 6
	ShortestPrecision = -1
	MaxPrecision      = 17
)

// Options tune the CSV layout.
type Options struct {
	// Precision is the number of significant digits; negative means the
	// shortest exact representation. 0 is treated as 1 by strconv.
	Precision int
	// Activity adds a third column λ·N(t), with λ taken from Lambda.
	Activity bool
	Lambda   float64
}

// Header returns the column names for opt.
func Header(opt Options) []string {
	h := []string{"time", "population"}
	if opt.Activity {
		h = append(h, "activity")
	}
	return h
}

// WriteCSV writes one header row and one row per sample.
func WriteCSV(w io.Writer, s decay.Series, opt Options) error {
	if len(s.Times) != len(s.Populations) {
		return fmt.Errorf("series length mismatch: %d times, %d populations", len(s.Times), len(s.Populations))
	}
	var activity []float64
	if opt.Activity {
		activity = s.Activity(opt.Lambda)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opt)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(Header(opt)))
	for i := range s.Times {
		row[0] = formatFloat(s.Times[i], opt.Precision)
		row[1] = formatFloat(s.Populations[i], opt.Precision)
		if opt.Activity {
			row[2] = formatFloat(activity[i], opt.Precision)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64, prec int) string {
	if prec < 0 {
		prec = -1
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// FileName is the download name for an isotope id, e.g. "decay_C-14.csv".
func FileName(id string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
	return "decay_" + r.Replace(strings.TrimSpace(id)) + ".csv"
}

// Save writes the series under dir and returns the file path.
func Save(dir, id string, s decay.Series, opt Options) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	p := filepath.Join(dir, FileName(id))
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if err := WriteCSV(f, s, opt); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return p, nil
}
