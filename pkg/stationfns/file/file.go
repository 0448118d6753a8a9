package file

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// Config is the closure-captured configuration for one file station. Unlike
// the shared resources borrowed from the resource map, Config is private to
// the station instance: two file stations never collide on it.
type Config struct {
	// RelPath is the file's path, relative to the station's own
	// destination.Dirs.StationDir.
	RelPath string

	// Content is the exact bytes the work function writes.
	Content []byte

	// Mode is the file's permission bits. Defaults to 0o644 if zero.
	Mode os.FileMode
}

func (c Config) mode() os.FileMode {
	if c.Mode == 0 {
		return 0o644
	}
	return c.Mode
}

func (c Config) path(dirs *destination.Dirs, id station.ID) string {
	return filepath.Join(dirs.StationDir(id.String()), c.RelPath)
}

func hash(b []byte) [32]byte { return sha256.Sum256(b) }

// Spec builds a station.Spec for id that creates (and can clean) a single
// file. Create is idempotent: check_fn compares the existing file's content
// hash against cfg.Content and reports WorkNotRequired on a match. Clean
// removes the file if present.
func Spec(id station.ID, cfg Config) (station.Spec, error) {
	setup, err := stationfn.New[station.ProgressLimit](
		func(_ context.Context, st *station.Mut, _ *resources.Map) (station.ProgressLimit, error) {
			return station.BytesLimit(uint64(len(cfg.Content))), nil
		},
	)
	if err != nil {
		return station.Spec{}, err
	}

	check, err := stationfn.New[station.CheckStatus](
		func(_ context.Context, st *station.Mut, _ *resources.Map, dirs *destination.Dirs) (station.CheckStatus, error) {
			existing, err := os.ReadFile(cfg.path(dirs, st.Name))
			if os.IsNotExist(err) {
				return station.WorkRequired, nil
			}
			if err != nil {
				return "", trainerr.New(trainerr.ClassCheckFail, "read existing file", err).WithStation(st.Name.String())
			}
			if hash(existing) == hash(cfg.Content) {
				return station.WorkNotRequired, nil
			}
			return station.WorkRequired, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	work, err := stationfn.New[station.ResIds](
		func(_ context.Context, st *station.Mut, _ *resources.Map, dirs *destination.Dirs) (station.ResIds, error) {
			path := cfg.path(dirs, st.Name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, trainerr.New(trainerr.ClassWorkFail, "create parent directory", err).WithStation(st.Name.String())
			}
			if err := os.WriteFile(path, cfg.Content, cfg.mode()); err != nil {
				return nil, trainerr.New(trainerr.ClassWorkFail, "write file", err).WithStation(st.Name.String())
			}
			return station.ResIds{"path": path}, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	cleanCheck, err := stationfn.New[station.CheckStatus](
		func(_ context.Context, st *station.Mut, _ *resources.Map, dirs *destination.Dirs) (station.CheckStatus, error) {
			if _, err := os.Stat(cfg.path(dirs, st.Name)); os.IsNotExist(err) {
				return station.WorkNotRequired, nil
			}
			return station.WorkRequired, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	cleanWork, err := stationfn.New[station.Unit](
		func(_ context.Context, st *station.Mut, _ *resources.Map, dirs *destination.Dirs) (station.Unit, error) {
			if err := os.Remove(cfg.path(dirs, st.Name)); err != nil && !os.IsNotExist(err) {
				return station.Unit{}, trainerr.New(trainerr.ClassWorkFail, "remove file", err).WithStation(st.Name.String())
			}
			return station.Unit{}, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	op := station.Op{
		Create: station.OpFns[station.ResIds]{Setup: setup, Check: check, Work: work},
		Clean:  &station.OpFns[station.Unit]{Setup: setup, Check: cleanCheck, Work: cleanWork},
	}

	return station.NewSpecBuilder(id, op).
		WithName(fmt.Sprintf("file:%s", id)).
		WithDescription(fmt.Sprintf("manage file %s", cfg.RelPath)).
		WithProgressUnit(station.ProgressUnitBytes).
		Build(), nil
}

// FactoryConfig is the JSON shape a "file" station's StationConfig.Config
// decodes to, matching the "rel_path"/"content" fields shown in the
// package-level CUE example.
type FactoryConfig struct {
	RelPath string      `json:"rel_path"`
	Content string      `json:"content"`
	Mode    os.FileMode `json:"mode,omitempty"`
}

// Factory adapts Spec to the config.StationFactory shape, so "file" can be
// registered in a config.Registry (see pkg/stationfns.DefaultRegistry).
func Factory(id station.ID, raw json.RawMessage) (station.Spec, error) {
	var fc FactoryConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return station.Spec{}, fmt.Errorf("file: decode config for station %q: %w", id, err)
	}
	return Spec(id, Config{RelPath: fc.RelPath, Content: []byte(fc.Content), Mode: fc.Mode})
}
