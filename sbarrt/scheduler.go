package sbarrt

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/sbarrt/motiongraph"
)

// Entropy is the probability of choosing the RRT* generator:
//
//	1 - exp(-temperature / ln n)
//
// For n < 2 the logarithm is not positive and Entropy returns 1.
func Entropy(temperature float64, n int) float64 {
	if n < 2 {
		return 1
	}

	return 1 - math.Exp(-temperature/math.Log(float64(n)))
}

// Run drives outer cycles until the visitor stops the session or a fatal
// failure occurs. Exhausting the visitor's budget is not an error.
// Calling Run on a finished session returns nil, or ErrSessionAborted when
// the session was aborted.
func (s *Session) Run() error {
	for s.state != StateDone {
		if !s.visitor.KeepGoing() {
			s.finish()

			break
		}
		if err := s.RunCycle(); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.aborted()
	}

	return nil
}

// RunCycle performs one outer cycle: requeue the start, iterate the inner
// loop, publish, prune and relax. The session is done afterwards when the
// visitor no longer keeps going.
func (s *Session) RunCycle() error {
	if s.state == StateDone {
		if s.err != nil {
			return s.aborted()
		}

		return nil
	}
	s.state = StateRunning
	s.stats.Cycles++
	s.requeue(s.g.Start())

	inner := 0
	for s.q.Len() > 0 && s.visitor.KeepGoing() {
		inner++
		s.stats.Iterations++
		if s.rng.Float64() > Entropy(s.opts.InitialTemperature, s.g.NumVertices()) {
			u, _ := s.q.Pop()
			s.g.Vertex(u).Status = motiongraph.Closed
			if s.opts.Lazy {
				ok, err := s.checkPredecessor(u)
				if err != nil {
					return s.abort(err, "lazy check of vertex %d", u)
				}
				if !ok {
					continue
				}
			}
			if !s.visitor.HasSearchPotential(u, s.g) {
				break
			}
			c, err := s.expand(u)
			if err != nil {
				return s.abort(err, "sba* expansion of vertex %d", u)
			}
			if err := s.grow(c); err != nil {
				return err
			}
			s.requeue(u)

			continue
		}
		if err := s.exploreStep(); err != nil {
			return err
		}
	}
	// An empty open set (closed start) must not spin the outer loop
	// without growing the roadmap.
	if inner == 0 && s.visitor.KeepGoing() {
		s.stats.Iterations++
		if err := s.exploreStep(); err != nil {
			return err
		}
	}

	if err := s.publish(); err != nil {
		return err
	}
	if !s.visitor.KeepGoing() {
		s.finish()
	} else {
		s.state = StateRunning
	}

	return nil
}

func (s *Session) exploreStep() error {
	c, err := s.explore()
	if err != nil {
		return s.abort(err, "rrt* exploration")
	}

	return s.grow(c)
}

// grow connects a generated candidate, if any.
func (s *Session) grow(c *candidate) error {
	if c == nil {
		return nil
	}
	if _, err := s.connect(c); err != nil {
		return s.abort(err, "connect %s candidate near vertex %d", c.kind, c.near)
	}

	return nil
}

// publish reports the best path, prunes when the bound improved and applies
// the anytime relaxation. In lazy mode the goal path is validated first.
func (s *Session) publish() error {
	s.state = StatePublishing
	if goal := s.g.Goal(); s.opts.Lazy && goal != motiongraph.NilVertex {
		if _, err := s.validatePath(goal); err != nil {
			return s.abort(err, "lazy check of the goal path")
		}
	}
	s.stats.Publishes++
	s.visitor.PublishPath(s.g)

	cost := s.BestCost()
	found := !math.IsInf(cost, 1)
	s.metrics.SolutionPublished(cost, found)
	s.log.WithFields(costFields(cost, logrus.Fields{
		"cycle":    s.stats.Cycles,
		"vertices": s.g.NumVertices(),
		"lambda":   s.lambda,
	})).Debug("published path")

	if found && cost < s.bound {
		s.bound = cost
		if !s.opts.DisablePruning {
			s.prune(cost)
		}
	}

	next := s.visitor.AdjustRelaxation(s.lambda, s.g)
	if next >= 0 && next < s.lambda {
		s.lambda = next
		s.stats.Relaxations++
		s.metrics.RelaxationAdjusted(next)
		s.q.Rekey(func(id VertexID) (float64, float64) {
			v := s.g.Vertex(id)
			v.Key = s.key(v)

			return v.Key, v.CostToCome
		})
	}

	return nil
}

func (s *Session) finish() {
	s.state = StateDone
	s.log.WithFields(costFields(s.BestCost(), logrus.Fields{
		"sba_vertices": s.stats.SBAVertices,
		"rrt_vertices": s.stats.RRTVertices,
		"vertices":     s.g.NumVertices(),
		"pruned":       s.stats.Pruned,
	})).Info("planning session finished")
}

// costFields adds found and, for a finite cost, cost to f. JSON log
// formatters cannot encode +Inf.
func costFields(cost float64, f logrus.Fields) logrus.Fields {
	found := !math.IsInf(cost, 1)
	f["found"] = found
	if found {
		f["cost"] = cost
	}

	return f
}
