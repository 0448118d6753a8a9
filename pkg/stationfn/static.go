package stationfn

import (
	"context"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
)

// staticCaller is a station.Caller that ignores its inputs and always
// returns the same (value, err) pair. It backs Ok and Err, the "ok/err
// factory pair for testing" spec.md §6 bullet 3 calls for.
type staticCaller[R any] struct {
	value R
	err   error
}

func (s staticCaller[R]) TryCall(context.Context, *station.Mut, *resources.Map) (R, error) {
	return s.value, s.err
}

// Ok returns a station.Caller that always succeeds with value.
func Ok[R any](value R) station.Caller[R] {
	return staticCaller[R]{value: value}
}

// Err returns a station.Caller that always fails with err.
func Err[R any](err error) station.Caller[R] {
	var zero R
	return staticCaller[R]{value: zero, err: err}
}
