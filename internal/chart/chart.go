// Package chart draws decay series as terminal line charts.
package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/Makepad-fr/halflife/internal/decay"
)

// Options control the plot size and the y scale.
type Options struct {
	Width    int // plot columns, excluding the y labels
	Height   int // plot rows
	LogScale bool
	Caption  string
}

const (
	minWidth  = 10
	minHeight = 4
)

// Render plots s. In log scale the y axis shows log10 N(t). The series is
// interpolated to Width columns by asciigraph.
func Render(s decay.Series, opt Options) string {
	if s.Len() == 0 {
		return ""
	}
	if opt.Width < minWidth {
		opt.Width = minWidth
	}
	if opt.Height < minHeight {
		opt.Height = minHeight
	}

	ys := s.Populations
	if opt.LogScale {
		ys = log10(ys)
	}
	graph := asciigraph.Plot(ys,
		asciigraph.Width(opt.Width),
		asciigraph.Height(opt.Height),
		asciigraph.Precision(precision(ys)),
		asciigraph.Caption(caption(opt)),
	)
	return graph + "\n" + xAxis(s, opt.Width)
}

func caption(opt Options) string {
	c := opt.Caption
	if opt.LogScale {
		if c != "" {
			c += "  "
		}
		c += "(log10 N)"
	}
	return c
}

// xAxis labels both ends of the time range under the plot.
func xAxis(s decay.Series, width int) string {
	unit := ""
	if s.Unit.Valid() {
		unit = " " + s.Unit.Short()
	}
	lo := "t=" + format(s.Times[0]) + unit
	hi := format(s.Times[s.Len()-1]) + unit
	gap := width - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	return lo + strings.Repeat(" ", gap) + hi
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func log10(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v <= 0 {
			v = math.SmallestNonzeroFloat64
		}
		out[i] = math.Log10(v)
	}
	return out
}

// precision picks label decimals so large counts do not widen the axis.
func precision(vs []float64) uint {
	maxAbs := 0.0
	for _, v := range vs {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	switch {
	case maxAbs >= 1000:
		return 0
	case maxAbs >= 10:
		return 1
	}
	return 2
}

// Summary is a one-line textual fallback for very small terminals.
func Summary(s decay.Series) string {
	if s.Len() == 0 {
		return ""
	}
	last := s.Len() - 1
	return fmt.Sprintf("N(%s)=%s … N(%s)=%s",
		format(s.Times[0]), format(s.Populations[0]),
		format(s.Times[last]), format(s.Populations[last]))
}
