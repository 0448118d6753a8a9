package dbrow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stores"
)

func newMut(t *testing.T, id station.ID) *station.Mut {
	t.Helper()
	return &station.Mut{ID: 0, Name: id, Progress: station.NewProgress(0, nil)}
}

func newTestDirs(t *testing.T) destination.Dirs {
	t.Helper()
	dir := t.TempDir()
	return destination.Dirs{
		WorkspaceDir:      dir,
		ProfileDir:        filepath.Join(dir, "target", "default"),
		ProfileHistoryDir: filepath.Join(dir, "target", ".history", "default"),
	}
}

func TestDbrowSpecCreateThenIdempotent(t *testing.T) {
	dirs := newTestDirs(t)
	if err := destination.EnsureDirs(dirs, []string{"accounts"}); err != nil {
		t.Fatal(err)
	}

	id, err := station.NewID("accounts")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := Spec(id, Config{LogicalName: "admin", Payload: `{"role":"admin"}`})
	if err != nil {
		t.Fatal(err)
	}

	res := resources.New()
	resources.Insert(res, dirs)
	ctx := context.Background()
	mut := newMut(t, id)

	if _, err := spec.Op.Create.Setup.TryCall(ctx, mut, res); err != nil {
		t.Fatalf("setup: %v", err)
	}

	status, err := spec.Op.Create.Check.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status != station.WorkRequired {
		t.Fatalf("expected WorkRequired before create, got %s", status)
	}

	resIds, err := spec.Op.Create.Work.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("work: %v", err)
	}
	if resIds["logical_name"] != "admin" {
		t.Fatalf("expected logical_name resource id, got %v", resIds)
	}

	status, err = spec.Op.Create.Check.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Fatalf("expected WorkNotRequired after create, got %s", status)
	}

	status, err = spec.Op.Clean.Check.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("clean check: %v", err)
	}
	if status != station.WorkRequired {
		t.Fatalf("expected clean WorkRequired while row exists, got %s", status)
	}

	if _, err := spec.Op.Clean.Work.TryCall(ctx, mut, res); err != nil {
		t.Fatalf("clean work: %v", err)
	}

	status, err = spec.Op.Clean.Check.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("clean recheck: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Fatalf("expected clean WorkNotRequired after delete, got %s", status)
	}
}

func TestDbrowSpecSharesStoreAcrossStations(t *testing.T) {
	dirs := newTestDirs(t)
	if err := destination.EnsureDirs(dirs, []string{"alpha", "beta"}); err != nil {
		t.Fatal(err)
	}

	alphaID, err := station.NewID("alpha")
	if err != nil {
		t.Fatal(err)
	}
	betaID, err := station.NewID("beta")
	if err != nil {
		t.Fatal(err)
	}

	alphaSpec, err := Spec(alphaID, Config{LogicalName: "row", Payload: "a"})
	if err != nil {
		t.Fatal(err)
	}
	betaSpec, err := Spec(betaID, Config{LogicalName: "row", Payload: "b"})
	if err != nil {
		t.Fatal(err)
	}

	res := resources.New()
	resources.Insert(res, dirs)
	ctx := context.Background()

	if _, err := alphaSpec.Op.Create.Setup.TryCall(ctx, newMut(t, alphaID), res); err != nil {
		t.Fatalf("alpha setup: %v", err)
	}
	if !resources.Contains[stores.SQLiteStore](res) {
		t.Fatal("expected store to be present in resource map after first setup")
	}

	if _, err := betaSpec.Op.Create.Setup.TryCall(ctx, newMut(t, betaID), res); err != nil {
		t.Fatalf("beta setup (should observe existing store): %v", err)
	}

	if _, err := alphaSpec.Op.Create.Work.TryCall(ctx, newMut(t, alphaID), res); err != nil {
		t.Fatalf("alpha work: %v", err)
	}
	if _, err := betaSpec.Op.Create.Work.TryCall(ctx, newMut(t, betaID), res); err != nil {
		t.Fatalf("beta work: %v", err)
	}

	status, err := alphaSpec.Op.Create.Check.TryCall(ctx, newMut(t, alphaID), res)
	if err != nil {
		t.Fatalf("alpha check: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Fatalf("expected alpha row present, got %s", status)
	}

	status, err = betaSpec.Op.Create.Check.TryCall(ctx, newMut(t, betaID), res)
	if err != nil {
		t.Fatalf("beta check: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Fatalf("expected beta row present, got %s", status)
	}
}

func TestFactoryDecodesConfig(t *testing.T) {
	id, err := station.NewID("accounts")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := Factory(id, []byte(`{"logical_name":"admin","payload":"{\"role\":\"admin\"}"}`))
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if spec.ID != id {
		t.Fatalf("expected spec for %s, got %s", id, spec.ID)
	}
}

func TestFactoryRejectsInvalidJSON(t *testing.T) {
	id, err := station.NewID("accounts")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Factory(id, []byte(`not json`)); err == nil {
		t.Fatal("expected an error for invalid config JSON")
	}
}
