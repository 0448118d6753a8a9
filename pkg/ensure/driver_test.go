package ensure

import (
	"context"
	"errors"
	"testing"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
)

func newMut(name string) *station.Mut {
	id, _ := station.NewID(name)
	return &station.Mut{Name: id, Progress: station.NewProgress(0, nil)}
}

// partialFailCaller is a station.Caller that fails but still reports a
// partial result, exercising the "WorkFail carries partial ResIds" path that
// stationfn.Err (which always zeroes its value) cannot express.
type partialFailCaller[R any] struct {
	ret R
	err error
}

func (c partialFailCaller[R]) TryCall(context.Context, *station.Mut, *resources.Map) (R, error) {
	return c.ret, c.err
}

func TestDrive_NilOp_NothingToDo(t *testing.T) {
	result := Drive[station.Unit](context.Background(), newMut("a"), resources.New(), nil)
	if result.Kind != NothingToDo {
		t.Fatalf("expected NothingToDo, got %s", result.Kind)
	}
}

func TestDrive_CheckNotRequired_Unchanged(t *testing.T) {
	op := &station.OpFns[station.ResIds]{
		Check: stationfn.Ok(station.WorkNotRequired),
		Work:  stationfn.Err[station.ResIds](errors.New("should not be called")),
	}
	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != Unchanged {
		t.Fatalf("expected Unchanged, got %s (%v)", result.Kind, result.Err)
	}
}

func TestDrive_CheckFails(t *testing.T) {
	wantErr := errors.New("check exploded")
	op := &station.OpFns[station.ResIds]{
		Check: stationfn.Err[station.CheckStatus](wantErr),
		Work:  stationfn.Ok(station.ResIds{}),
	}
	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != CheckFail || result.Err != wantErr {
		t.Fatalf("expected CheckFail(%v), got %s (%v)", wantErr, result.Kind, result.Err)
	}
}

func TestDrive_CheckBorrowFail(t *testing.T) {
	type cfg struct{}
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, c *cfg) (station.CheckStatus, error) {
		return station.WorkRequired, nil
	}
	checkFn, err := stationfn.New[station.CheckStatus](fn, stationfn.ModeShared)
	if err != nil {
		t.Fatalf("stationfn.New: %v", err)
	}
	op := &station.OpFns[station.ResIds]{
		Check: checkFn,
		Work:  stationfn.Ok(station.ResIds{}),
	}
	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != CheckBorrowFail {
		t.Fatalf("expected CheckBorrowFail, got %s (%v)", result.Kind, result.Err)
	}
}

func TestDrive_NoCheck_WorkRunsAndSucceeds(t *testing.T) {
	op := &station.OpFns[station.ResIds]{
		Work: stationfn.Ok(station.ResIds{"endpoint": "http://10.0.0.1:8000"}),
	}
	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != Changed {
		t.Fatalf("expected Changed, got %s (%v)", result.Kind, result.Err)
	}
	if result.Ret["endpoint"] != "http://10.0.0.1:8000" {
		t.Fatalf("unexpected res ids: %v", result.Ret)
	}
	if result.SpecBug != nil {
		t.Fatalf("expected no spec bug when there is no check_fn")
	}
}

func TestDrive_WorkFails_PartialResIdsReported(t *testing.T) {
	wantErr := errors.New("work exploded")
	partial := station.ResIds{"partial": "value"}
	op := &station.OpFns[station.ResIds]{
		Work: partialFailCaller[station.ResIds]{ret: partial, err: wantErr},
	}
	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != WorkFail || result.Err != wantErr {
		t.Fatalf("expected WorkFail(%v), got %s (%v)", wantErr, result.Kind, result.Err)
	}
	if result.Ret["partial"] != "value" {
		t.Fatalf("expected partial res ids to be reported, got %v", result.Ret)
	}
}

func TestDrive_VisitBorrowFail(t *testing.T) {
	type counter struct{ N int }
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, c *counter) (station.ResIds, error) {
		return station.ResIds{}, nil
	}
	workFn, err := stationfn.New[station.ResIds](fn, stationfn.ModeExclusive)
	if err != nil {
		t.Fatalf("stationfn.New: %v", err)
	}
	op := &station.OpFns[station.ResIds]{Work: workFn}

	result := Drive(context.Background(), newMut("a"), resources.New(), op)
	if result.Kind != VisitBorrowFail {
		t.Fatalf("expected VisitBorrowFail, got %s (%v)", result.Kind, result.Err)
	}
}

func TestDrive_PostCheckStillRequired_RecordsSpecBug(t *testing.T) {
	op := &station.OpFns[station.ResIds]{
		Check: stationfn.Ok(station.WorkRequired),
		Work:  stationfn.Ok(station.ResIds{"x": "1"}),
	}
	result := Drive(context.Background(), newMut("bug_station"), resources.New(), op)
	if result.Kind != Changed {
		t.Fatalf("expected Changed, got %s", result.Kind)
	}
	if result.SpecBug == nil {
		t.Fatalf("expected a spec bug to be recorded")
	}
	if result.SpecBug.ID != "bug_station" {
		t.Fatalf("unexpected spec bug station id: %s", result.SpecBug.ID)
	}
}

func TestDrive_PostCheckSucceeds_NoSpecBug(t *testing.T) {
	calls := 0
	type cfg struct{}
	m := resources.New()
	resources.Insert(m, cfg{})

	checkFnRaw := func(ctx context.Context, st *station.Mut, res *resources.Map, c *cfg) (station.CheckStatus, error) {
		calls++
		if calls == 1 {
			return station.WorkRequired, nil
		}
		return station.WorkNotRequired, nil
	}
	checkFn, err := stationfn.New[station.CheckStatus](checkFnRaw, stationfn.ModeShared)
	if err != nil {
		t.Fatalf("stationfn.New: %v", err)
	}

	op := &station.OpFns[station.ResIds]{
		Check: checkFn,
		Work:  stationfn.Ok(station.ResIds{}),
	}
	result := Drive(context.Background(), newMut("a"), m, op)
	if result.Kind != Changed {
		t.Fatalf("expected Changed, got %s (%v)", result.Kind, result.Err)
	}
	if result.SpecBug != nil {
		t.Fatalf("expected no spec bug when post-check reports WorkNotRequired")
	}
	if calls != 2 {
		t.Fatalf("expected check_fn to be called twice (pre and post), got %d", calls)
	}
}
