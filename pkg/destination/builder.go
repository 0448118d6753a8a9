package destination

import (
	"fmt"

	"github.com/railgraph/railgraph/pkg/graph"
	"github.com/railgraph/railgraph/pkg/station"
)

// DuplicateStationIDError reports that AddStation was called twice with the
// same station.ID within one Builder (spec.md §3: "Two stations with the
// same id in one destination is a construction error").
type DuplicateStationIDError struct {
	ID station.ID
}

func (e *DuplicateStationIDError) Error() string {
	return fmt.Sprintf("destination: duplicate station id %q", e.ID)
}

// Builder builds a Destination: add_station/add_edge/with_profile/
// with_workspace_spec/build, per spec.md §6 bullet 1.
type Builder struct {
	graph    *graph.Graph[station.Spec]
	idToRtID map[station.ID]station.RtID
	sink     station.Sink
	profile  Profile
	policy   WorkspacePolicy
	err      error
}

// NewBuilder starts a Builder with the default profile and WorkingDir policy.
func NewBuilder() *Builder {
	return &Builder{
		graph:    graph.New[station.Spec](),
		idToRtID: make(map[station.ID]station.RtID),
		sink:     station.NullSink{},
		profile:  DefaultProfile(),
		policy:   UseWorkingDir(),
	}
}

// AddStation registers spec and returns its runtime id. Adding two specs
// with the same ID is a construction error surfaced at Build time (mirroring
// the DAG's own "reject cycles at AddEdge" fail-fast style, rather than at
// every intermediate call).
func (b *Builder) AddStation(spec station.Spec) station.RtID {
	if _, exists := b.idToRtID[spec.ID]; exists {
		b.err = &DuplicateStationIDError{ID: spec.ID}
		return 0
	}
	rtID := b.graph.AddNode(spec)
	b.idToRtID[spec.ID] = rtID
	return rtID
}

// AddEdge adds a Logic or Contains edge between two previously-added
// stations, rejecting cycles.
func (b *Builder) AddEdge(from, to station.RtID, kind graph.EdgeKind) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.graph.AddEdge(from, to, kind); err != nil {
		b.err = err
	}
	return b
}

// WithProfile sets the execution profile, validating its format.
func (b *Builder) WithProfile(profile string) *Builder {
	if b.err != nil {
		return b
	}
	p, err := NewProfile(profile)
	if err != nil {
		b.err = err
		return b
	}
	b.profile = p
	return b
}

// WithWorkspacePolicy sets how the workspace directory is located.
func (b *Builder) WithWorkspacePolicy(policy WorkspacePolicy) *Builder {
	b.policy = policy
	return b
}

// WithProgressSink sets the progress renderer every station's Progress
// record reports ticks to. Defaults to station.NullSink for headless runs.
func (b *Builder) WithProgressSink(sink station.Sink) *Builder {
	b.sink = sink
	return b
}

// Build resolves directories and returns the finished Destination, or the
// first error encountered during AddStation/AddEdge/WithProfile, or a
// directory-resolution failure.
func (b *Builder) Build() (*Destination, error) {
	if b.err != nil {
		return nil, b.err
	}

	dirs, err := calcDirs(b.policy, b.profile)
	if err != nil {
		return nil, err
	}

	progresses := make(map[station.RtID]*station.Progress, b.graph.Len())
	for _, rtID := range b.graph.Nodes() {
		progresses[rtID] = station.NewProgress(rtID, b.sink)
	}

	return &Destination{
		graph:        b.graph,
		idToRtID:     b.idToRtID,
		progresses:   progresses,
		profile:      b.profile,
		dirs:         dirs,
		progressSink: b.sink,
	}, nil
}
