package train

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/graph"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

func okSpec(t *testing.T, name string) station.Spec {
	t.Helper()
	id, err := station.NewID(name)
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	op := station.Op{Create: station.OpFns[station.ResIds]{
		Setup: stationfn.Ok(station.UnknownLimit()),
		Work:  stationfn.Ok(station.ResIds{station.ResIdLogical(name): name + "-value"}),
	}}
	return station.NewSpecBuilder(id, op).Build()
}

func failSpec(t *testing.T, name string, workErr error) station.Spec {
	t.Helper()
	id, err := station.NewID(name)
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	op := station.Op{Create: station.OpFns[station.ResIds]{
		Setup: stationfn.Ok(station.UnknownLimit()),
		Work:  stationfn.Err[station.ResIds](workErr),
	}}
	return station.NewSpecBuilder(id, op).Build()
}

// TestReachCreate_FanInWithOneFailure mirrors spec.md's worked example: a and
// b both feed c, a succeeds, b fails. c must reach ParentFail without ever
// running, and the engine-level result must still be a complete Report.
func TestReachCreate_FanInWithOneFailure(t *testing.T) {
	b := destination.NewBuilder().WithWorkspacePolicy(destination.UseExplicitPath(t.TempDir()))

	e1 := errors.New("E1")
	a := b.AddStation(okSpec(t, "a"))
	bb := b.AddStation(failSpec(t, "b", e1))
	c := b.AddStation(okSpec(t, "c"))
	b.AddEdge(a, c, graph.Logic)
	b.AddEdge(bb, c, graph.Logic)

	dest, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	report, err := New().ReachCreate(context.Background(), dest)
	if err != nil {
		t.Fatalf("ReachCreate returned engine-level error: %v", err)
	}

	aRt, _ := dest.RtIDFor("a")
	bRt, _ := dest.RtIDFor("b")
	cRt, _ := dest.RtIDFor("c")

	if got := dest.Progress(aRt).Status(); got != station.WorkSuccess {
		t.Errorf("a: expected WorkSuccess, got %s", got)
	}
	if got := dest.Progress(bRt).Status(); got != station.WorkFail {
		t.Errorf("b: expected WorkFail, got %s", got)
	}
	if got := dest.Progress(cRt).Status(); got != station.ParentFail {
		t.Errorf("c: expected ParentFail, got %s", got)
	}

	if _, ok := report.Error(aRt); ok {
		t.Errorf("a: expected no recorded error")
	}
	if e, ok := report.Error(bRt); !ok || e.Class != trainerr.ClassWorkFail {
		t.Errorf("b: expected a recorded ClassWorkFail error, got %+v (ok=%v)", e, ok)
	}
	if e, ok := report.Error(cRt); !ok || e.Class != trainerr.ClassParentFail {
		t.Errorf("c: expected a recorded ClassParentFail error, got %+v (ok=%v)", e, ok)
	}

	if _, ok := report.ResIds["a"]; !ok {
		t.Errorf("expected a's ResIds to be accumulated in the report")
	}
	if _, ok := report.ResIds["c"]; ok {
		t.Errorf("c never ran and should not have contributed ResIds")
	}
}

func TestReachClean_NoErrors_EmptyResIds(t *testing.T) {
	b := destination.NewBuilder().WithWorkspacePolicy(destination.UseExplicitPath(t.TempDir()))
	b.AddStation(okSpec(t, "a"))

	dest, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	report, err := New().ReachClean(context.Background(), dest)
	if err != nil {
		t.Fatalf("ReachClean returned engine-level error: %v", err)
	}
	if len(report.ResIds) != 0 {
		t.Errorf("expected no ResIds from a clean run, got %v", report.ResIds)
	}
	if !report.Succeeded() {
		t.Errorf("expected a clean run with no clean ops to succeed, errors: %v", report.Errors())
	}
}

// TestReachCreate_DirectoryCreateFailure_IsFatalEngineError exercises the
// only failure mode spec.md §7 calls fatal: an engine-internal directory
// creation failure aborts the whole run with a *trainerr.TrainError rather
// than producing a partial Report.
func TestReachCreate_DirectoryCreateFailure_IsFatalEngineError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}

	// A workspace dir nested under a regular file can never be MkdirAll'd.
	b := destination.NewBuilder().WithWorkspacePolicy(destination.UseExplicitPath(filepath.Join(blocker, "workspace")))
	b.AddStation(okSpec(t, "a"))

	dest, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	report, err := New().ReachCreate(context.Background(), dest)
	if err == nil {
		t.Fatalf("expected a fatal engine error, got a Report: %+v", report)
	}
	if !trainerr.IsFatal(err) {
		t.Fatalf("expected err to be fatal (ClassInternal), got %v", err)
	}
	if trainerr.ClassOf(err) != trainerr.ClassInternal {
		t.Fatalf("expected ClassInternal, got %s", trainerr.ClassOf(err))
	}
}
