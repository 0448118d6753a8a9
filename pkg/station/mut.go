package station

import (
	"context"

	"github.com/railgraph/railgraph/pkg/resources"
)

// Mut is the mutable per-call station handle passed as the first injected
// parameter to every setup_fn/check_fn/work_fn (spec.md §4.2: "take &mut
// Station"). It exposes identity and the progress record; the resource map
// is threaded separately, as spec.md's own "&mut Station, &TrainResources"
// split requires.
type Mut struct {
	ID       RtID
	Name     ID
	Progress *Progress
}

// SetLimit records the ProgressLimit this call declares, ticking the
// progress sink. Typically called once from setup_fn.
func (m *Mut) SetLimit(limit ProgressLimit) {
	m.Progress.SetLimit(limit)
}

// Caller is the interface a wrapped station function (stationfn.Fn[R])
// satisfies structurally: given a context, the station's mutable handle, and
// the resource map, borrow its declared parameters and invoke the user
// function. Declared here, rather than imported from stationfn, so OpFns can
// reference it without an import cycle — stationfn depends on station for
// Mut, not the reverse.
type Caller[R any] interface {
	TryCall(ctx context.Context, st *Mut, res *resources.Map) (R, error)
}
