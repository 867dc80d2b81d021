// Package obstacles provides a planar obstacle field usable as a
// space.Validity oracle: a rectangular workspace populated with rectangular
// and circular obstacles, optionally inflated by a clearance margin.
//
// Geometry is delegated to github.com/golang/geo (r1 intervals, r2 points and
// rectangles). Only 2-D points are meaningful; points of any other dimension
// are reported as not free.
package obstacles

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/katalvlaran/sbarrt/space"
)

// Sentinel errors for field construction.
var (
	// ErrEmptyWorkspace indicates a workspace rectangle with no interior.
	ErrEmptyWorkspace = errors.New("obstacles: workspace is empty")

	// ErrBadObstacle indicates an empty rectangle, a non-positive radius or a
	// non-finite coordinate.
	ErrBadObstacle = errors.New("obstacles: invalid obstacle")

	// ErrBadClearance indicates a negative or non-finite clearance.
	ErrBadClearance = errors.New("obstacles: clearance must be finite and non-negative")
)

// Disc is a circular obstacle.
type Disc struct {
	Center r2.Point
	Radius float64
}

// Field is a 2-D workspace with obstacles. The zero value is not usable;
// build one with NewField.
type Field struct {
	workspace r2.Rect
	rects     []r2.Rect
	discs     []Disc
	clearance float64
}

// Option configures a Field.
type Option func(*Field) error

// WithRect adds an axis-aligned rectangular obstacle spanning the two corners.
func WithRect(minX, minY, maxX, maxY float64) Option {
	return func(f *Field) error {
		if !finite(minX, minY, maxX, maxY) || minX >= maxX || minY >= maxY {
			return fmt.Errorf("%w: rect (%g,%g)-(%g,%g)", ErrBadObstacle, minX, minY, maxX, maxY)
		}
		f.rects = append(f.rects, r2.Rect{
			X: r1.Interval{Lo: minX, Hi: maxX},
			Y: r1.Interval{Lo: minY, Hi: maxY},
		})

		return nil
	}
}

// WithDisc adds a circular obstacle.
func WithDisc(x, y, radius float64) Option {
	return func(f *Field) error {
		if !finite(x, y, radius) || radius <= 0 {
			return fmt.Errorf("%w: disc at (%g,%g) radius %g", ErrBadObstacle, x, y, radius)
		}
		f.discs = append(f.discs, Disc{Center: r2.Point{X: x, Y: y}, Radius: radius})

		return nil
	}
}

// WithClearance inflates every obstacle by margin.
func WithClearance(margin float64) Option {
	return func(f *Field) error {
		if margin < 0 || !finite(margin) {
			return fmt.Errorf("%w: %g", ErrBadClearance, margin)
		}
		f.clearance = margin

		return nil
	}
}

// NewField builds a field over the workspace rectangle [minX,maxX]x[minY,maxY].
func NewField(minX, minY, maxX, maxY float64, opts ...Option) (*Field, error) {
	if !finite(minX, minY, maxX, maxY) || minX >= maxX || minY >= maxY {
		return nil, fmt.Errorf("%w: (%g,%g)-(%g,%g)", ErrEmptyWorkspace, minX, minY, maxX, maxY)
	}
	f := &Field{
		workspace: r2.RectFromPoints(r2.Point{X: minX, Y: minY}, r2.Point{X: maxX, Y: maxY}),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if f.clearance > 0 {
		for i := range f.rects {
			f.rects[i] = f.rects[i].ExpandedByMargin(f.clearance)
		}
		for i := range f.discs {
			f.discs[i].Radius += f.clearance
		}
	}

	return f, nil
}

// IsFree reports whether p is a 2-D point inside the workspace and outside
// every (inflated) obstacle. Obstacle boundaries count as occupied.
func (f *Field) IsFree(p space.Point) bool {
	if len(p) != 2 || !p.Finite() {
		return false
	}
	q := r2.Point{X: p[0], Y: p[1]}
	if !f.workspace.ContainsPoint(q) {
		return false
	}
	for _, r := range f.rects {
		if r.ContainsPoint(q) {
			return false
		}
	}
	for _, d := range f.discs {
		if q.Sub(d.Center).Norm() <= d.Radius {
			return false
		}
	}

	return true
}

// Workspace returns the workspace rectangle.
func (f *Field) Workspace() r2.Rect { return f.workspace }

// NumObstacles returns the number of rectangles plus discs.
func (f *Field) NumObstacles() int { return len(f.rects) + len(f.discs) }

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
