// Package metrics exports sbarrt engine events as Prometheus metrics.
//
// Collectors are registered on a caller-supplied registerer, so several
// planners (or tests) can use isolated registries. All updates are safe for
// concurrent use, which lets one collector serve concurrent planner queries.
package metrics

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/sbarrt/sbarrt"
)

// DefaultNamespace prefixes every metric name when none is given.
const DefaultNamespace = "sbarrt"

// Prometheus implements sbarrt.Metrics.
type Prometheus struct {
	GeneratedTotal     *prometheus.CounterVec // labels: generator (sba, rrt)
	SteerFailuresTotal prometheus.Counter
	RejectionsTotal    prometheus.Counter
	PrunedTotal        prometheus.Counter
	PublishesTotal     *prometheus.CounterVec // labels: found (true, false)
	BestCost           prometheus.Gauge
	Relaxation         prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them on reg.
// An empty namespace selects DefaultNamespace.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	p := &Prometheus{
		GeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vertices_generated_total",
			Help:      "Roadmap vertices created, by node generator.",
		}, []string{"generator"}),
		SteerFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steering_failures_total",
			Help:      "SBA* expansions that made no progress.",
		}),
		RejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_rejections_total",
			Help:      "Neighbour connections rejected by the steering oracle.",
		}),
		PrunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vertices_pruned_total",
			Help:      "Vertices removed by branch-and-bound.",
		}),
		PublishesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Path publications, by whether a solution existed.",
		}, []string{"found"}),
		BestCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_cost",
			Help:      "Cost of the last published solution.",
		}),
		Relaxation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relaxation",
			Help:      "Current heuristic weight.",
		}),
	}
	if reg == nil {
		return p, nil
	}
	for _, c := range []prometheus.Collector{
		p.GeneratedTotal, p.SteerFailuresTotal, p.RejectionsTotal,
		p.PrunedTotal, p.PublishesTotal, p.BestCost, p.Relaxation,
	} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "metrics: register collector")
		}
	}

	return p, nil
}

// VertexGenerated counts a created vertex.
func (p *Prometheus) VertexGenerated(kind sbarrt.Generator) {
	p.GeneratedTotal.WithLabelValues(kind.String()).Inc()
}

func (p *Prometheus) SteeringFailed()      { p.SteerFailuresTotal.Inc() }
func (p *Prometheus) ConnectionRejected()  { p.RejectionsTotal.Inc() }
func (p *Prometheus) VerticesPruned(n int) { p.PrunedTotal.Add(float64(n)) }

// SolutionPublished counts the publish and records the cost when found.
func (p *Prometheus) SolutionPublished(cost float64, found bool) {
	p.PublishesTotal.WithLabelValues(strconv.FormatBool(found)).Inc()
	if found {
		p.BestCost.Set(cost)
	}
}

func (p *Prometheus) RelaxationAdjusted(lambda float64) { p.Relaxation.Set(lambda) }

var _ sbarrt.Metrics = (*Prometheus)(nil)
