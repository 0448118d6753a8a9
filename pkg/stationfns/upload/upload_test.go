package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/railgraph/railgraph/pkg/station"
)

func TestLocalChecksumMatchesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(path, []byte("hello railgraph"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum1, err := localChecksum(path)
	if err != nil {
		t.Fatal(err)
	}
	sum2, err := localChecksum(path)
	if err != nil {
		t.Fatal(err)
	}
	if sum1 != sum2 {
		t.Fatalf("expected stable checksum, got %s vs %s", sum1, sum2)
	}

	if err := os.WriteFile(path, []byte("different content"), 0o644); err != nil {
		t.Fatal(err)
	}
	sum3, err := localChecksum(path)
	if err != nil {
		t.Fatal(err)
	}
	if sum3 == sum1 {
		t.Fatal("expected checksum to change with content")
	}
}

func TestLocalChecksumMissingFile(t *testing.T) {
	if _, err := localChecksum(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestNewPoolInitializesClientMap(t *testing.T) {
	pool := NewPool()
	if pool.clients == nil {
		t.Fatal("expected NewPool to initialize the client map")
	}
}

func TestNewFactoryInlineSSH(t *testing.T) {
	id, err := station.NewID("deploy_artifact")
	if err != nil {
		t.Fatal(err)
	}

	factory := NewFactory(nil)
	spec, err := factory(id, []byte(`{
		"ssh": {"Host": "db01.internal", "Port": 22, "User": "deploy"},
		"local_path": "/tmp/artifact.bin",
		"remote_path": "/srv/artifact.bin"
	}`))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if spec.ID != id {
		t.Fatalf("expected spec for %s, got %s", id, spec.ID)
	}
}

func TestNewFactoryHostIDWithoutRegistryFails(t *testing.T) {
	id, err := station.NewID("deploy_artifact")
	if err != nil {
		t.Fatal(err)
	}

	factory := NewFactory(nil)
	_, err = factory(id, []byte(`{"host_id":"db01","local_path":"/tmp/artifact.bin","remote_path":"/srv/artifact.bin"}`))
	if err == nil {
		t.Fatal("expected an error when host_id is set but no registry is configured")
	}
}

func TestNewFactoryMissingTargetFails(t *testing.T) {
	id, err := station.NewID("deploy_artifact")
	if err != nil {
		t.Fatal(err)
	}

	factory := NewFactory(nil)
	_, err = factory(id, []byte(`{"local_path":"/tmp/artifact.bin","remote_path":"/srv/artifact.bin"}`))
	if err == nil {
		t.Fatal("expected an error when neither host_id nor ssh is set")
	}
}
