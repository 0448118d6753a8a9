package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
)

func newMut(t *testing.T, id station.ID) *station.Mut {
	t.Helper()
	return &station.Mut{ID: 0, Name: id, Progress: station.NewProgress(0, nil)}
}

func TestFileSpecCreateThenIdempotent(t *testing.T) {
	dir := t.TempDir()
	dirs := destination.Dirs{WorkspaceDir: dir, ProfileDir: filepath.Join(dir, "target", "default"), ProfileHistoryDir: filepath.Join(dir, "target", ".history", "default")}

	id, err := station.NewID("web_config")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := Spec(id, Config{RelPath: "app.conf", Content: []byte("listen 8080\n")})
	if err != nil {
		t.Fatal(err)
	}

	res := resources.New()
	resources.Insert(res, dirs)
	ctx := context.Background()
	mut := newMut(t, id)

	if err := os.MkdirAll(dirs.StationDir(id.String()), 0o755); err != nil {
		t.Fatal(err)
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
	if _, ok := resIds["path"]; !ok {
		t.Fatalf("expected a path resource id, got %v", resIds)
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
		t.Fatalf("expected clean WorkRequired while file exists, got %s", status)
	}

	if _, err := spec.Op.Clean.Work.TryCall(ctx, mut, res); err != nil {
		t.Fatalf("clean work: %v", err)
	}

	status, err = spec.Op.Clean.Check.TryCall(ctx, mut, res)
	if err != nil {
		t.Fatalf("clean recheck: %v", err)
	}
	if status != station.WorkNotRequired {
		t.Fatalf("expected clean WorkNotRequired after removal, got %s", status)
	}
}

func TestFactoryDecodesConfig(t *testing.T) {
	id, err := station.NewID("web_config")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := Factory(id, []byte(`{"rel_path":"app.conf","content":"listen 8080\n"}`))
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if spec.ID != id {
		t.Fatalf("expected spec for %s, got %s", id, spec.ID)
	}
}

func TestFactoryRejectsInvalidJSON(t *testing.T) {
	id, err := station.NewID("web_config")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Factory(id, []byte(`not json`)); err == nil {
		t.Fatal("expected an error for invalid config JSON")
	}
}
