// Package decay evaluates the exponential decay law N(t) = N0·e^(-λt) for an
// isotope and derives the constants shown next to the curve.
package decay

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Makepad-fr/halflife/internal/isotope"
)

const (
	// MinSamples and MaxSamples bound the grid size. The upper bound is the
	// ceiling the presentation layer lets users pick.
	MinSamples = 2
	MaxSamples = 10000

	// LogDecades is how many decades below MaxTime a log grid starts.
	LogDecades = 3
)

// Params are the per-request inputs of Compute.
type Params struct {
	N0       float64
	MaxTime  float64
	Samples  int
	LogScale bool
	// Unit of MaxTime and of the returned series. Zero means the record's
	// own half-life unit.
	Unit isotope.TimeUnit
}

// Constants are derived from a record and N0, expressed in Unit.
type Constants struct {
	HalfLife      float64
	DecayConstant float64 // λ, per Unit
	MeanLifetime  float64 // τ = 1/λ
	Unit          isotope.TimeUnit

	InitialActivity    float64 // λ·N0, per Unit
	ActivityAtHalfLife float64
}

// InSeconds re-expresses c per second.
func (c Constants) InSeconds() Constants {
	f := c.Unit.Seconds()
	return Constants{
		HalfLife:           c.HalfLife * f,
		DecayConstant:      c.DecayConstant / f,
		MeanLifetime:       c.MeanLifetime * f,
		Unit:               isotope.Seconds,
		InitialActivity:    c.InitialActivity / f,
		ActivityAtHalfLife: c.ActivityAtHalfLife / f,
	}
}

// Series is one sampled decay curve.
type Series struct {
	Times       []float64
	Populations []float64
	Unit        isotope.TimeUnit
}

func (s Series) Len() int { return len(s.Times) }

// Activity returns λ·N(t) for every sample; λ must be per s.Unit.
func (s Series) Activity(lambda float64) []float64 {
	out := make([]float64, len(s.Populations))
	for i, n := range s.Populations {
		out[i] = lambda * n
	}
	return out
}

// Population is the closed-form law at a single instant.
func Population(n0, lambda, t float64) float64 {
	return n0 * math.Exp(-lambda*t)
}

// DecayConstant returns ln2 / halfLife.
func DecayConstant(halfLife float64) float64 {
	return math.Ln2 / halfLife
}

// HalfLives returns the time spanning k half-lives of rec, in unit u.
func HalfLives(rec isotope.Record, k float64, u isotope.TimeUnit) float64 {
	if !u.Valid() {
		u = rec.HalfLifeUnit
	}
	return k * rec.HalfLifeIn(u)
}

// Compute validates p and evaluates the curve for rec. It either returns a
// complete result or an *InvalidParameterError, never a partial series.
func Compute(rec isotope.Record, p Params) (Constants, Series, error) {
	if err := p.validate(); err != nil {
		return Constants{}, Series{}, err
	}
	u := p.Unit
	if !u.Valid() {
		u = rec.HalfLifeUnit
	}
	halfLife := rec.HalfLifeIn(u)
	if !(halfLife > 0) || math.IsInf(halfLife, 0) {
		return Constants{}, Series{}, &InvalidParameterError{Param: "half-life", Value: halfLife, Reason: "must be positive and finite"}
	}
	lambda := DecayConstant(halfLife)

	c := Constants{
		HalfLife:           halfLife,
		DecayConstant:      lambda,
		MeanLifetime:       1 / lambda,
		Unit:               u,
		InitialActivity:    lambda * p.N0,
		ActivityAtHalfLife: lambda * Population(p.N0, lambda, halfLife),
	}

	times := grid(p.Samples, p.MaxTime, p.LogScale)
	pops := make([]float64, len(times))
	for i, t := range times {
		pops[i] = Population(p.N0, lambda, t)
	}
	return c, Series{Times: times, Populations: pops, Unit: u}, nil
}

func grid(n int, maxTime float64, logScale bool) []float64 {
	dst := make([]float64, n)
	lo := 0.0
	if logScale {
		lo = maxTime / math.Pow(10, LogDecades)
		floats.LogSpan(dst, lo, maxTime)
	} else {
		floats.Span(dst, lo, maxTime)
	}
	// pin the endpoints exactly
	dst[0], dst[n-1] = lo, maxTime
	return dst
}

func (p Params) validate() error {
	switch {
	case math.IsNaN(p.N0) || math.IsInf(p.N0, 0) || p.N0 <= 0:
		return &InvalidParameterError{Param: "N0", Value: p.N0, Reason: "must be a positive finite number"}
	case math.IsNaN(p.MaxTime) || math.IsInf(p.MaxTime, 0) || p.MaxTime <= 0:
		return &InvalidParameterError{Param: "max time", Value: p.MaxTime, Reason: "must be a positive finite number"}
	case p.Samples < MinSamples:
		return &InvalidParameterError{Param: "samples", Value: float64(p.Samples), Reason: "need at least 2"}
	case p.Samples > MaxSamples:
		return &InvalidParameterError{Param: "samples", Value: float64(p.Samples), Reason: "above the 10000 limit"}
	}
	if p.Unit != 0 && !p.Unit.Valid() {
		return &InvalidParameterError{Param: "unit", Value: float64(p.Unit), Reason: "unknown time unit"}
	}
	return nil
}
