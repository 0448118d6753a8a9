package stationfn

import (
	"context"
	"errors"
	"testing"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
)

type configFile struct {
	Path string
}

type counter struct {
	N int
}

func newMut() *station.Mut {
	return &station.Mut{ID: station.RtID(0), Progress: station.NewProgress(0, nil)}
}

func TestNew_RejectsWrongArity(t *testing.T) {
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map) (station.CheckStatus, error) {
		return station.WorkRequired, nil
	}
	if _, err := New[station.CheckStatus](fn, ModeShared); err == nil {
		t.Fatalf("expected arity mismatch error")
	}
}

func TestNew_RejectsNonPointerParam(t *testing.T) {
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, c configFile) (station.CheckStatus, error) {
		return station.WorkRequired, nil
	}
	if _, err := New[station.CheckStatus](fn, ModeShared); err == nil {
		t.Fatalf("expected non-pointer parameter to be rejected")
	}
}

func TestNew_RejectsWrongReturnType(t *testing.T) {
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map) (string, error) {
		return "", nil
	}
	if _, err := New[station.CheckStatus](fn); err == nil {
		t.Fatalf("expected return-type mismatch error")
	}
}

func TestFn_TryCall_SharedBorrow(t *testing.T) {
	m := resources.New()
	resources.Insert(m, configFile{Path: "/etc/app.conf"})

	called := false
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, cfg *configFile) (station.CheckStatus, error) {
		called = true
		if cfg.Path != "/etc/app.conf" {
			t.Fatalf("unexpected borrowed value: %+v", cfg)
		}
		return station.WorkNotRequired, nil
	}

	wrapped, err := New[station.CheckStatus](fn, ModeShared)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	status, err := wrapped.TryCall(context.Background(), newMut(), m)
	if err != nil {
		t.Fatalf("TryCall: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Errorf("unexpected status: %s", status)
	}
	if !called {
		t.Errorf("expected wrapped function to be called")
	}
}

func TestFn_TryCall_ExclusiveMutates(t *testing.T) {
	m := resources.New()
	resources.Insert(m, counter{N: 1})

	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, c *counter) (station.ResIds, error) {
		c.N++
		return station.ResIds{"n": c.N}, nil
	}

	wrapped, err := New[station.ResIds](fn, ModeExclusive)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids, err := wrapped.TryCall(context.Background(), newMut(), m)
	if err != nil {
		t.Fatalf("TryCall: %v", err)
	}
	if ids["n"] != 2 {
		t.Fatalf("expected mutation to be observed, got %v", ids)
	}

	g, err := resources.Borrow[counter](m)
	if err != nil {
		t.Fatalf("borrow after call: %v", err)
	}
	defer g.Release()
	if g.Value.N != 2 {
		t.Fatalf("expected mutation to persist in map, got %d", g.Value.N)
	}
}

func TestFn_TryCall_BorrowFailSkipsUserCode(t *testing.T) {
	m := resources.New()
	// counter never inserted.
	called := false
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, c *counter) (station.ResIds, error) {
		called = true
		return station.ResIds{}, nil
	}

	wrapped, err := New[station.ResIds](fn, ModeExclusive)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := wrapped.TryCall(context.Background(), newMut(), m); err == nil {
		t.Fatalf("expected borrow failure")
	}
	if called {
		t.Fatalf("expected user function not to be invoked on borrow failure")
	}
}

func TestFn_AccessSet(t *testing.T) {
	fn := func(ctx context.Context, st *station.Mut, res *resources.Map, cfg *configFile, c *counter) (station.ResIds, error) {
		return nil, nil
	}
	wrapped, err := New[station.ResIds](fn, ModeShared, ModeExclusive)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	shared, exclusive := wrapped.AccessSet()
	if len(shared) != 1 || len(exclusive) != 1 {
		t.Fatalf("expected one shared and one exclusive type, got %d/%d", len(shared), len(exclusive))
	}
}

func TestOkErr_Factories(t *testing.T) {
	ok := Ok(station.WorkNotRequired)
	status, err := ok.TryCall(context.Background(), newMut(), resources.New())
	if err != nil || status != station.WorkNotRequired {
		t.Fatalf("Ok factory misbehaved: %v, %v", status, err)
	}

	wantErr := errors.New("boom")
	failing := Err[station.CheckStatus](wantErr)
	if _, err := failing.TryCall(context.Background(), newMut(), resources.New()); err != wantErr {
		t.Fatalf("Err factory misbehaved: %v", err)
	}
}
