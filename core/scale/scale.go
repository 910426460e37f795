// Package scale maps commit attributes to plot coordinates.
//
// The scales mirror the continuous scales of common charting toolkits: a
// linear scale, a square-root scale for circle radii and a time scale whose
// domain can be widened to round calendar boundaries. A degenerate domain
// maps every input to the middle of the range.
package scale

import (
	"math"
	"time"
)

// Linear maps [D0,D1] onto [R0,R1] without clamping.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps a domain value to the range.
func (s *Linear) Scale(x float64) float64 {
	return interpolate(s.R0, s.R1, normalize(s.D0, s.D1, x))
}

// Invert maps a range value back to the domain.
func (s *Linear) Invert(y float64) float64 {
	return interpolate(s.D0, s.D1, normalize(s.R0, s.R1, y))
}

// Sqrt is a power scale with exponent 0.5. It keeps circle area proportional to the domain value.
type Sqrt struct {
	D0, D1 float64
	R0, R1 float64
}

// NewSqrt creates a square-root scale.
func NewSqrt(d0, d1, r0, r1 float64) *Sqrt {
	return &Sqrt{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps a domain value to the range.
func (s *Sqrt) Scale(x float64) float64 {
	return interpolate(s.R0, s.R1, normalize(signedSqrt(s.D0), signedSqrt(s.D1), signedSqrt(x)))
}

// Time maps an instant domain onto a numeric range.
// Instants are handled as fractional Unix milliseconds.
type Time struct {
	D0, D1 time.Time
	R0, R1 float64
}

// NewTime creates a time scale.
func NewTime(d0, d1 time.Time, r0, r1 float64) *Time {
	return &Time{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps an instant to the range.
func (s *Time) Scale(t time.Time) float64 {
	return interpolate(s.R0, s.R1, normalize(millis(s.D0), millis(s.D1), millis(t)))
}

// Invert maps a range value back to an instant in the location of the domain start.
func (s *Time) Invert(y float64) time.Time {
	ms := interpolate(millis(s.D0), millis(s.D1), normalize(s.R0, s.R1, y))
	return fromMillis(ms, s.D0.Location())
}

// Nice widens the domain to round boundaries of a calendar interval chosen for about ten ticks.
func (s *Time) Nice() *Time {
	s.D0, s.D1 = NiceTime(s.D0, s.D1, 10)
	return s
}

func normalize(a, b, x float64) float64 {
	if b-a == 0 {
		return 0.5
	}
	return (x - a) / (b - a)
}

func interpolate(a, b, t float64) float64 {
	return a + (b-a)*t
}

func signedSqrt(x float64) float64 {
	if x < 0 {
		return -math.Sqrt(-x)
	}
	return math.Sqrt(x)
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli()) + float64(t.Nanosecond()%int(time.Millisecond))/1e6
}

func fromMillis(ms float64, loc *time.Location) time.Time {
	sec := math.Floor(ms / 1000)
	nsec := math.Round((ms - sec*1000) * 1e6)
	return time.Unix(int64(sec), int64(nsec)).In(loc)
}
