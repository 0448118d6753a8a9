package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/station"
)

func testDirs(t *testing.T) destination.Dirs {
	t.Helper()
	root := t.TempDir()
	b := destination.NewBuilder().WithWorkspacePolicy(destination.UseExplicitPath(root))
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dirs := d.Dirs()
	if err := destination.EnsureDirs(dirs, []string{"a"}); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	return dirs
}

func TestPersister_Persist_WritesOneFilePerLogicalName(t *testing.T) {
	dirs := testDirs(t)
	id, _ := station.NewID("a")
	resIds := station.ResIds{
		"endpoint": "http://10.0.0.1:8000",
		"port":     float64(8000),
	}

	if err := New().Persist(dirs, id, resIds); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	stationHistDir := dirs.ProfileHistoryStationDir("a")
	for logical, want := range resIds {
		path := filepath.Join(stationHistDir, string(logical)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		var got interface{}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
		if got != want {
			t.Errorf("%s: got %v, want %v", path, got, want)
		}
	}
}

func TestPersister_Run_ConsumesChannelUntilClosed(t *testing.T) {
	dirs := testDirs(t)
	id, _ := station.NewID("a")

	ch := make(chan Entry, 2)
	ch <- Entry{StationID: id, ResIds: station.ResIds{"x": "1"}}
	ch <- Entry{StationID: id, ResIds: station.ResIds{"y": "2"}}
	close(ch)

	if err := New().Run(dirs, ch); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, logical := range []string{"x", "y"} {
		path := filepath.Join(dirs.ProfileHistoryStationDir("a"), logical+".json")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestPersister_Persist_SerializeFailure(t *testing.T) {
	dirs := testDirs(t)
	id, _ := station.NewID("a")
	resIds := station.ResIds{"bad": make(chan int)}

	err := New().Persist(dirs, id, resIds)
	if err == nil {
		t.Fatalf("expected a serialize error for an unmarshalable value")
	}
}
