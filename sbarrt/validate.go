package sbarrt

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

// validateOptions reports every out-of-range option at once.
// Each aggregated error wraps ErrBadOption.
func validateOptions(o Options) error {
	var result *multierror.Error
	bad := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrBadOption}, args...)...))
	}

	if !(o.InitialTemperature > 0) || math.IsInf(o.InitialTemperature, 0) {
		bad("initial temperature %g must be positive and finite", o.InitialTemperature)
	}
	if !(o.InitialRelaxation > 0) || o.InitialRelaxation > 1 {
		bad("initial relaxation %g must be in (0, 1]", o.InitialRelaxation)
	}
	if o.SamplingRadius < 0 || math.IsNaN(o.SamplingRadius) || math.IsInf(o.SamplingRadius, 0) {
		bad("sampling radius %g must be finite and non-negative", o.SamplingRadius)
	}
	if !(o.SteerProgressTolerance >= 0) || o.SteerProgressTolerance >= 1 {
		bad("steer progress tolerance %g must be in [0, 1)", o.SteerProgressTolerance)
	}
	if o.MaxExploreRetries < 1 {
		bad("max explore retries %d must be at least 1", o.MaxExploreRetries)
	}
	if o.QueueArity < 2 {
		bad("queue arity %d must be at least 2", o.QueueArity)
	}

	return result.ErrorOrNil()
}
