package sbarrt

// Metrics receives engine events for observability. Implementations must be
// cheap; they are called from the search loop.
type Metrics interface {
	VertexGenerated(kind Generator)
	SteeringFailed()
	ConnectionRejected()
	VerticesPruned(n int)
	SolutionPublished(cost float64, found bool)
	RelaxationAdjusted(lambda float64)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) VertexGenerated(Generator)       {}
func (NopMetrics) SteeringFailed()                 {}
func (NopMetrics) ConnectionRejected()             {}
func (NopMetrics) VerticesPruned(int)              {}
func (NopMetrics) SolutionPublished(float64, bool) {}
func (NopMetrics) RelaxationAdjusted(float64)      {}

var _ Metrics = NopMetrics{}
