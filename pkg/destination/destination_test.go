package destination

import (
	"testing"

	"github.com/railgraph/railgraph/pkg/graph"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
)

func noopSpec(t *testing.T, name string) station.Spec {
	t.Helper()
	id, err := station.NewID(name)
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	op := station.Op{Create: station.OpFns[station.ResIds]{
		Setup: stationfn.Ok(station.UnknownLimit()),
		Work:  stationfn.Ok(station.ResIds{}),
	}}
	return station.NewSpecBuilder(id, op).Build()
}

func TestBuilder_DuplicateStationID(t *testing.T) {
	b := NewBuilder()
	b.AddStation(noopSpec(t, "a"))
	b.AddStation(noopSpec(t, "a"))

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected duplicate id error")
	} else if _, ok := err.(*DuplicateStationIDError); !ok {
		t.Fatalf("expected *DuplicateStationIDError, got %T", err)
	}
}

func TestBuilder_CyclicEdgeRejected(t *testing.T) {
	b := NewBuilder()
	a := b.AddStation(noopSpec(t, "a"))
	c := b.AddStation(noopSpec(t, "b"))
	b.AddEdge(a, c, graph.Logic)
	b.AddEdge(c, a, graph.Logic)

	if _, err := b.Build(); err == nil {
		t.Fatalf("expected cycle error")
	} else if _, ok := err.(*graph.CycleError); !ok {
		t.Fatalf("expected *graph.CycleError, got %T", err)
	}
}

func TestBuilder_Build_EmptyDestination(t *testing.T) {
	b := NewBuilder().WithWorkspacePolicy(UseExplicitPath(t.TempDir()))
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Graph().Len() != 0 {
		t.Fatalf("expected empty destination, got %d stations", d.Graph().Len())
	}
	if len(d.StationsOrdered()) != 0 {
		t.Fatalf("expected no stations in order")
	}
}

func TestDestination_StationsOrdered(t *testing.T) {
	b := NewBuilder().WithWorkspacePolicy(UseExplicitPath(t.TempDir()))
	a := b.AddStation(noopSpec(t, "a"))
	c := b.AddStation(noopSpec(t, "c"))
	bb := b.AddStation(noopSpec(t, "b"))
	b.AddEdge(a, bb, graph.Logic)
	b.AddEdge(bb, c, graph.Logic)

	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := d.StationsOrdered()
	if len(order) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(order))
	}
	if order[0].ID != "a" || order[1].ID != "b" || order[2].ID != "c" {
		t.Fatalf("unexpected dependency order: %v %v %v", order[0].ID, order[1].ID, order[2].ID)
	}
	for _, o := range order {
		if o.Status != station.SetupQueued {
			t.Errorf("expected fresh destination stations in SetupQueued, got %s for %s", o.Status, o.ID)
		}
	}
}

func TestDestination_RtIDFor(t *testing.T) {
	b := NewBuilder().WithWorkspacePolicy(UseExplicitPath(t.TempDir()))
	rtID := b.AddStation(noopSpec(t, "a"))
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, ok := d.RtIDFor("a")
	if !ok || got != rtID {
		t.Fatalf("expected RtIDFor(a) = %d, ok=true; got %d, ok=%v", rtID, got, ok)
	}
	if _, ok := d.RtIDFor("missing"); ok {
		t.Fatalf("expected RtIDFor(missing) to report not found")
	}
}
