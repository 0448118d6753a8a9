package train

import "github.com/railgraph/railgraph/pkg/station"

// Report is TrainReport (spec.md §3): the final aggregate returned by
// ReachCreate/ReachClean. It embeds the Resources it ran with, so the
// resource map and error table stay reachable after the run, plus the
// ResIds accumulated across every station that produced one.
type Report struct {
	*Resources

	// ResIds accumulates every station's create work_fn output, keyed by
	// each logical name. A clean run produces none.
	ResIds station.ResIds
}
