// Package config loads planning jobs from YAML files.
//
// A job describes the world (a box, optionally populated with planar
// obstacles), one query and the planner settings:
//
//	world:
//	  lower: [0, 0]
//	  upper: [1, 1]
//	  clearance: 0.01
//	  rects:
//	    - {min: [0.45, 0.0], max: [0.55, 0.7]}
//	  discs:
//	    - {center: [0.2, 0.8], radius: 0.05}
//	query:
//	  start: [0.1, 0.1]
//	  goal:  [0.9, 0.1]
//	planner:
//	  max_vertices: 1500
//	  max_edge_length: 0.15
//	  seed: 7
//
// Omitted planner keys keep planner.DefaultConfig values. Unknown keys are
// rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sbarrt/obstacles"
	"github.com/katalvlaran/sbarrt/planner"
	"github.com/katalvlaran/sbarrt/space"
)

var (
	// ErrEmptyPath indicates Load was called without a file name.
	ErrEmptyPath = errors.New("config: empty path")

	// ErrInvalid indicates a semantically invalid job.
	ErrInvalid = errors.New("config: invalid job")
)

// Rect is an axis-aligned obstacle given by two opposite corners.
type Rect struct {
	Min [2]float64 `yaml:"min"`
	Max [2]float64 `yaml:"max"`
}

// Disc is a circular obstacle.
type Disc struct {
	Center [2]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// Grid is an occupancy map stretched over the world; row 0 is the top row.
// Cells with a value of at least Threshold (1 when unset) are blocked.
type Grid struct {
	Rows      [][]int `yaml:"rows"`
	Threshold int     `yaml:"threshold,omitempty"`
}

// World is the configuration space and its obstacles. Obstacles require a
// 2-D world.
type World struct {
	Lower     space.Point `yaml:"lower"`
	Upper     space.Point `yaml:"upper"`
	Clearance float64     `yaml:"clearance"`
	Rects     []Rect      `yaml:"rects"`
	Discs     []Disc      `yaml:"discs"`
	Grid      *Grid       `yaml:"grid,omitempty"`
}

func (w World) hasObstacles() bool {
	return len(w.Rects) > 0 || len(w.Discs) > 0 || w.Grid != nil
}

// Query is the start and goal of the job.
type Query struct {
	Start space.Point `yaml:"start"`
	Goal  space.Point `yaml:"goal"`
}

// Job is a complete planning job.
type Job struct {
	World   World          `yaml:"world"`
	Query   Query          `yaml:"query"`
	Planner planner.Config `yaml:"planner"`
}

// Load reads and parses the job file at path.
func Load(path string) (*Job, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "config: read job file")
	}

	return Parse(data)
}

// Parse decodes and validates a YAML job.
func Parse(data []byte) (*Job, error) {
	job := &Job{Planner: planner.DefaultConfig()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(job); err != nil {
		return nil, pkgerrors.Wrap(err, "config: decode job")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Marshal encodes the job back to YAML.
func (j *Job) Marshal() ([]byte, error) {
	return yaml.Marshal(j)
}

// Validate reports every problem of the job at once. World and query errors
// wrap ErrInvalid; planner errors wrap planner.ErrBadConfig.
func (j *Job) Validate() error {
	var result *multierror.Error
	bad := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	dim := len(j.World.Lower)
	switch {
	case dim == 0:
		bad("world.lower is empty")
	case len(j.World.Upper) != dim:
		bad("world.upper has %d coordinates, world.lower has %d", len(j.World.Upper), dim)
	default:
		if _, err := space.NewBox(j.World.Lower, j.World.Upper); err != nil {
			bad("world bounds: %v", err)
		}
	}
	if j.World.hasObstacles() && dim != 2 {
		bad("obstacles need a 2-D world, got %d dimensions", dim)
	}
	if !(j.World.Clearance >= 0) {
		bad("world.clearance %g must not be negative", j.World.Clearance)
	}
	for i, r := range j.World.Rects {
		if !(r.Min[0] < r.Max[0]) || !(r.Min[1] < r.Max[1]) {
			bad("world.rects[%d] is empty", i)
		}
	}
	for i, d := range j.World.Discs {
		if !(d.Radius > 0) {
			bad("world.discs[%d] radius %g must be positive", i, d.Radius)
		}
	}
	if g := j.World.Grid; g != nil {
		if len(g.Rows) == 0 || len(g.Rows[0]) == 0 {
			bad("world.grid has no cells")
		}
		for i, row := range g.Rows {
			if len(row) != len(g.Rows[0]) {
				bad("world.grid row %d has %d cells, row 0 has %d", i, len(row), len(g.Rows[0]))
			}
		}
	}
	if len(j.Query.Start) != dim {
		bad("query.start has %d coordinates, world has %d", len(j.Query.Start), dim)
	}
	if len(j.Query.Goal) != dim {
		bad("query.goal has %d coordinates, world has %d", len(j.Query.Goal), dim)
	}
	if err := j.Planner.Validate(); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			result = multierror.Append(result, merr.Errors...)
		} else {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// BuildWorld returns the topology and validity oracle of the job. A world
// without obstacles is entirely free; a grid and a field are combined.
func (j *Job) BuildWorld() (*space.Box, space.Validity, error) {
	box, err := space.NewBox(j.World.Lower, j.World.Upper)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "config: world bounds")
	}
	if !j.World.hasObstacles() && j.World.Clearance == 0 {
		return box, space.AllFree, nil
	}
	if box.Dimension() != 2 {
		return nil, nil, fmt.Errorf("%w: obstacles need a 2-D world", ErrInvalid)
	}

	lo, hi := box.Lower(), box.Upper()
	opts := make([]obstacles.Option, 0, len(j.World.Rects)+len(j.World.Discs)+1)
	for _, r := range j.World.Rects {
		opts = append(opts, obstacles.WithRect(r.Min[0], r.Min[1], r.Max[0], r.Max[1]))
	}
	for _, d := range j.World.Discs {
		opts = append(opts, obstacles.WithDisc(d.Center[0], d.Center[1], d.Radius))
	}
	opts = append(opts, obstacles.WithClearance(j.World.Clearance))
	field, err := obstacles.NewField(lo[0], lo[1], hi[0], hi[1], opts...)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "config: obstacle field")
	}

	grid, err := j.buildGrid()
	if err != nil {
		return nil, nil, err
	}
	if grid == nil {
		return box, field, nil
	}
	if field.NumObstacles() == 0 {
		return box, grid, nil
	}

	return box, obstacles.AllOf(grid, field), nil
}

func (j *Job) buildGrid() (*obstacles.Grid, error) {
	gs := j.World.Grid
	if gs == nil {
		return nil, nil
	}
	threshold := gs.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	lo, hi := j.World.Lower, j.World.Upper
	grid, err := obstacles.NewGrid(lo[0], lo[1], hi[0], hi[1], gs.Rows, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "config: occupancy grid")
	}

	return grid, nil
}

// Reachable reports whether the occupancy grid leaves start and goal in the
// same free region. Jobs without a grid are assumed reachable.
func (j *Job) Reachable() (bool, error) {
	if j.World.Grid == nil || len(j.World.Lower) != 2 {
		return true, nil
	}
	grid, err := j.buildGrid()
	if err != nil {
		return false, err
	}

	return grid.Connected(j.Query.Start, j.Query.Goal), nil
}

// NewPlanner builds the world and a planner for it.
func (j *Job) NewPlanner(opts ...planner.Option) (*planner.Planner, error) {
	box, validity, err := j.BuildWorld()
	if err != nil {
		return nil, err
	}

	return planner.New(box, validity, j.Planner, opts...)
}

// PlannerQuery converts the job query.
func (j *Job) PlannerQuery() planner.Query {
	return planner.Query{Start: j.Query.Start.Clone(), Goal: j.Query.Goal.Clone()}
}
