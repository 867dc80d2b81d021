package space

import (
	"fmt"
	"math"
	"math/rand"
)

// Box is an axis-aligned hyper-rectangle [Lower, Upper] with the Euclidean
// metric and uniform sampling.
type Box struct {
	lower Point
	upper Point
}

// NewBox validates the bounds and returns a Box.
//
// Errors:
//   - ErrDimensionMismatch if len(lower) != len(upper).
//   - ErrInvalidBounds if the box is zero-dimensional, non-finite, or
//     lower[i] >= upper[i] on some axis.
func NewBox(lower, upper Point) (*Box, error) {
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("%w: lower has %d coordinates, upper has %d",
			ErrDimensionMismatch, len(lower), len(upper))
	}
	if len(lower) == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional box", ErrInvalidBounds)
	}
	if !lower.Finite() || !upper.Finite() {
		return nil, fmt.Errorf("%w: non-finite bound", ErrInvalidBounds)
	}
	for i := range lower {
		if lower[i] >= upper[i] {
			return nil, fmt.Errorf("%w: axis %d has lower %g >= upper %g",
				ErrInvalidBounds, i, lower[i], upper[i])
		}
	}

	return &Box{lower: lower.Clone(), upper: upper.Clone()}, nil
}

// MustBox is NewBox that panics on error. Intended for tests and fixed setups.
func MustBox(lower, upper Point) *Box {
	b, err := NewBox(lower, upper)
	if err != nil {
		panic(err)
	}

	return b
}

// UnitBox returns the unit hyper-cube [0,1]^dim.
func UnitBox(dim int) *Box {
	lower := make(Point, dim)
	upper := make(Point, dim)
	for i := range upper {
		upper[i] = 1
	}

	return MustBox(lower, upper)
}

// Dimension returns the number of axes.
func (b *Box) Dimension() int { return len(b.lower) }

// Lower returns a copy of the lower corner.
func (b *Box) Lower() Point { return b.lower.Clone() }

// Upper returns a copy of the upper corner.
func (b *Box) Upper() Point { return b.upper.Clone() }

// Distance is the Euclidean distance. Both points must have Dimension()
// coordinates; callers validate dimensions once at their boundary.
func (b *Box) Distance(p, q Point) float64 {
	var sum float64
	for i := range p {
		d := p[i] - q[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

// RandomPoint draws a point uniformly inside the box.
func (b *Box) RandomPoint(rng *rand.Rand) Point {
	p := make(Point, len(b.lower))
	for i := range p {
		p[i] = b.lower[i] + rng.Float64()*(b.upper[i]-b.lower[i])
	}

	return p
}

// MoveToward interpolates linearly between a and c.
func (b *Box) MoveToward(a, c Point, fraction float64) Point {
	p := make(Point, len(a))
	for i := range p {
		p[i] = a[i] + fraction*(c[i]-a[i])
	}

	return p
}

// Contains reports whether p lies inside the closed box.
func (b *Box) Contains(p Point) bool {
	if len(p) != len(b.lower) {
		return false
	}
	for i := range p {
		if p[i] < b.lower[i] || p[i] > b.upper[i] {
			return false
		}
	}

	return true
}

// Diameter returns the length of the box diagonal.
func (b *Box) Diameter() float64 { return b.Distance(b.lower, b.upper) }
