package destination

import (
	"fmt"

	"github.com/railgraph/railgraph/pkg/graph"
	"github.com/railgraph/railgraph/pkg/station"
)

// Destination is a DAG of station.Spec values plus the indexing, progress,
// profile, and directory information needed to execute it (spec.md §3
// "Destination<E>"). Built once by Builder; its graph, specs, and directory
// layout are immutable for the remainder of its life — only the per-station
// Progress records mutate, and only the engine mutates them.
type Destination struct {
	graph       *graph.Graph[station.Spec]
	idToRtID    map[station.ID]station.RtID
	progresses  map[station.RtID]*station.Progress
	profile     Profile
	dirs        Dirs
	progressSink station.Sink
}

// Graph returns the underlying station DAG.
func (d *Destination) Graph() *graph.Graph[station.Spec] { return d.graph }

// Profile returns the chosen execution profile.
func (d *Destination) Profile() Profile { return d.profile }

// Dirs returns the resolved directory layout.
func (d *Destination) Dirs() Dirs { return d.dirs }

// RtIDFor returns the runtime id for a station id.
func (d *Destination) RtIDFor(id station.ID) (station.RtID, bool) {
	rtID, ok := d.idToRtID[id]
	return rtID, ok
}

// Spec returns the spec stored at rtID.
func (d *Destination) Spec(rtID station.RtID) station.Spec {
	return d.graph.Node(rtID)
}

// Progress returns the mutable progress record for rtID.
func (d *Destination) Progress(rtID station.RtID) *station.Progress {
	return d.progresses[rtID]
}

// StationOrder is one entry of StationsOrdered: a station's id paired with
// its current status, read at iteration time.
type StationOrder struct {
	ID     station.ID
	RtID   station.RtID
	Status station.OpStatus
}

// StationsOrdered returns a dependency-ordered, read-only snapshot of every
// station's (ID, OpStatus) — the hook spec.md §6.5 requires for an external
// formatter, supplemented per SPEC_FULL.md §4 from
// original_source/crate/rt_model/src/destination.rs's Destination::stations
// (which iterates in topological rather than pure insertion order via
// stations_iter). Status is read at call time; it may be stale by the time
// the caller observes it if a run is concurrently in progress, matching the
// source's RtMap::try_borrow semantics of "whatever is not currently
// exclusively borrowed".
func (d *Destination) StationsOrdered() []StationOrder {
	order := d.graph.Topological()
	out := make([]StationOrder, 0, len(order))
	for _, rtID := range order {
		spec := d.graph.Node(rtID)
		out = append(out, StationOrder{
			ID:     spec.ID,
			RtID:   rtID,
			Status: d.progresses[rtID].Status(),
		})
	}
	return out
}

// String renders a short human summary, useful in logs and tests.
func (d *Destination) String() string {
	return fmt.Sprintf("destination{profile=%s stations=%d}", d.profile, d.graph.Len())
}
