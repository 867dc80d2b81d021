package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sbarrt/config"
	"github.com/katalvlaran/sbarrt/metrics"
	"github.com/katalvlaran/sbarrt/planner"
	"github.com/katalvlaran/sbarrt/sbarrt"
)

type planOptions struct {
	*rootOptions

	config      string
	output      string
	metricsOut  string
	seed        int64
	maxVertices int
	timeout     time.Duration
	audit       bool
}

// result is the JSON document written by the plan command.
type result struct {
	SessionID string       `json:"session_id"`
	Found     bool         `json:"found"`
	Cost      *float64     `json:"cost,omitempty"`
	Path      [][]float64  `json:"path,omitempty"`
	History   []float64    `json:"history,omitempty"`
	Vertices  int          `json:"vertices"`
	Edges     int          `json:"edges"`
	Stats     sbarrt.Stats `json:"stats"`
	Audit     *auditResult `json:"audit,omitempty"`
}

type auditResult struct {
	Connected  int     `json:"connected"`
	MaxDrift   float64 `json:"max_drift"`
	MaxGap     float64 `json:"max_gap"`
	Violations int     `json:"violations"`
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the planning job of a YAML file and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.config, "config", "", "job file (YAML)")
	f.StringVarP(&opts.output, "output", "o", "", "result file (default stdout)")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file")
	f.Int64Var(&opts.seed, "seed", 0, "override planner.seed")
	f.IntVar(&opts.maxVertices, "max-vertices", 0, "override planner.max_vertices")
	f.DurationVar(&opts.timeout, "timeout", 0, "stop planning after this long (0 = no limit)")
	f.BoolVar(&opts.audit, "audit", false, "audit the final roadmap")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
	log, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	job, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		job.Planner.Seed = opts.seed
	}
	if flags.Changed("max-vertices") {
		job.Planner.MaxVertices = opts.maxVertices
	}
	if opts.audit {
		job.Planner.Audit = true
	}

	if reachable, err := job.Reachable(); err != nil {
		return err
	} else if !reachable {
		log.Warn("start and goal lie in different free regions of the grid")
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, metrics.DefaultNamespace)
	if err != nil {
		return err
	}
	p, err := job.NewPlanner(planner.WithLogger(log), planner.WithMetrics(m))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	sol, err := p.Solve(ctx, job.PlannerQuery())
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.WithFields(logrus.Fields{
		"found":    sol.Found,
		"vertices": sol.Graph.NumVertices(),
		"session":  sol.SessionID,
	}).Info("plan finished")

	if opts.metricsOut != "" {
		if err := prometheus.WriteToTextfile(opts.metricsOut, reg); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}

	return writeResult(cmd.OutOrStdout(), opts.output, newResult(sol))
}

func newResult(sol *planner.Solution) result {
	r := result{
		SessionID: sol.SessionID,
		Found:     sol.Found,
		History:   sol.History,
		Vertices:  sol.Graph.NumVertices(),
		Edges:     sol.Graph.NumEdges(),
		Stats:     sol.Stats,
	}
	if sol.Found {
		cost := sol.Cost
		r.Cost = &cost
		r.Path = make([][]float64, len(sol.Path))
		for i, q := range sol.Path {
			r.Path[i] = q
		}
	}
	if sol.Audit != nil {
		r.Audit = &auditResult{
			Connected:  sol.Audit.Connected,
			MaxDrift:   sol.Audit.MaxDrift,
			MaxGap:     sol.Audit.MaxGap,
			Violations: sol.Audit.Violations,
		}
	}

	return r
}

func writeResult(stdout io.Writer, path string, r result) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create result file")
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(r), "encode result")
}
