package persist

import (
	"testing"

	"github.com/railgraph/railgraph/pkg/station"
)

func TestLoader_LoadRoundTripsPersistedValues(t *testing.T) {
	dirs := testDirs(t)
	id, _ := station.NewID("a")
	written := station.ResIds{
		"endpoint": "http://10.0.0.1:8000",
	}
	if err := New().Persist(dirs, id, written); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, err := NewLoader().Load(dirs, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded["endpoint"] != "http://10.0.0.1:8000" {
		t.Fatalf("unexpected loaded res ids: %v", loaded)
	}
}

func TestLoader_Load_MissingDirectoryYieldsEmpty(t *testing.T) {
	dirs := testDirs(t)
	id, _ := station.NewID("never_ran")

	loaded, err := NewLoader().Load(dirs, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty res ids for a station that never ran, got %v", loaded)
	}
}
