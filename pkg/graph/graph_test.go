package graph

import (
	"reflect"
	"testing"

	"github.com/railgraph/railgraph/pkg/station"
)

func TestAddNode_InsertionOrder(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")

	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("expected sequential RtIDs, got %d %d %d", a, b, c)
	}
	if got := g.Nodes(); !reflect.DeepEqual(got, []station.RtID{0, 1, 2}) {
		t.Fatalf("unexpected node order: %v", got)
	}
}

func TestAddEdge_RejectsCycle(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	b := g.AddNode("b")

	if err := g.AddEdge(a, b, Logic); err != nil {
		t.Fatalf("unexpected error adding a->b: %v", err)
	}
	if err := g.AddEdge(b, a, Logic); err == nil {
		t.Fatalf("expected cycle error adding b->a")
	} else if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
}

func TestAddEdge_SelfLoopRejected(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	if err := g.AddEdge(a, a, Logic); err == nil {
		t.Fatalf("expected self-loop to be rejected as a cycle")
	}
}

func TestAddEdge_OverwritesKindWithoutDuplicating(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	b := g.AddNode("b")

	if err := g.AddEdge(a, b, Contains); err != nil {
		t.Fatalf("AddEdge contains: %v", err)
	}
	if err := g.AddEdge(a, b, Logic); err != nil {
		t.Fatalf("AddEdge overwrite to logic: %v", err)
	}

	if children := g.LogicChildren(a); len(children) != 1 || children[0] != b {
		t.Fatalf("expected exactly one logic child b, got %v", children)
	}
	if contains := g.ContainsChildren(a); len(contains) != 0 {
		t.Fatalf("expected contains edge to have been removed, got %v", contains)
	}
}

func TestTopological_LinearChain(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	mustAddEdge(t, g, a, b, Logic)
	mustAddEdge(t, g, b, c, Logic)

	order := g.Topological()
	if !reflect.DeepEqual(order, []station.RtID{a, b, c}) {
		t.Fatalf("unexpected topological order: %v", order)
	}

	rev := g.ReverseTopological()
	if !reflect.DeepEqual(rev, []station.RtID{c, b, a}) {
		t.Fatalf("unexpected reverse topological order: %v", rev)
	}
}

func TestTopological_FanIn(t *testing.T) {
	g := New[string]()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	mustAddEdge(t, g, a, c, Logic)
	mustAddEdge(t, g, b, c, Logic)

	order := g.Topological()
	if len(order) != 3 || order[2] != c {
		t.Fatalf("expected c last, got %v", order)
	}

	parents := g.LogicParents(c)
	if len(parents) != 2 {
		t.Fatalf("expected 2 parents of c, got %v", parents)
	}
}

func TestLen(t *testing.T) {
	g := New[string]()
	g.AddNode("a")
	g.AddNode("b")
	if g.Len() != 2 {
		t.Fatalf("expected len 2, got %d", g.Len())
	}
}

func mustAddEdge(t *testing.T, g *Graph[string], from, to station.RtID, kind EdgeKind) {
	t.Helper()
	if err := g.AddEdge(from, to, kind); err != nil {
		t.Fatalf("AddEdge(%d, %d, %v): %v", from, to, kind, err)
	}
}
