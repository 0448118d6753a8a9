package upload

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/railgraph/railgraph/pkg/hostinv"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
	"github.com/railgraph/railgraph/pkg/trainerr"
	"github.com/railgraph/railgraph/pkg/transports/ssh"
)

// Config is the closure-captured configuration for one upload station.
type Config struct {
	// SSH identifies and authenticates to the remote host. Stations that
	// share an Address() share a pooled connection.
	SSH *ssh.Config

	// LocalPath is the file uploaded from the machine running railgraph.
	LocalPath string

	// RemotePath is the destination path on the remote host.
	RemotePath string

	// Mode is the remote file's permission bits after upload.
	Mode uint32
}

func localChecksum(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x", sum), nil
}

// Spec builds a station.Spec for id that uploads cfg.LocalPath to
// cfg.RemotePath on cfg.SSH's host via SFTP. Create is idempotent:
// check_fn compares a local sha256 digest against the remote file's digest
// (computed with `sha256sum` over SSH). Clean removes the remote file.
func Spec(id station.ID, cfg Config) (station.Spec, error) {
	setup, err := stationfn.New[station.ProgressLimit](
		func(_ context.Context, _ *station.Mut, res *resources.Map) (station.ProgressLimit, error) {
			if !resources.Contains[Pool](res) {
				resources.Insert(res, NewPool())
			}
			info, err := os.Stat(cfg.LocalPath)
			if err != nil {
				return station.ProgressLimit{}, trainerr.New(trainerr.ClassSetupFail, "stat local file", err).WithStation(id.String())
			}
			return station.BytesLimit(uint64(info.Size())), nil
		},
	)
	if err != nil {
		return station.Spec{}, err
	}

	check, err := stationfn.New[station.CheckStatus](
		func(ctx context.Context, st *station.Mut, _ *resources.Map, pool *Pool) (station.CheckStatus, error) {
			local, err := localChecksum(cfg.LocalPath)
			if err != nil {
				return "", trainerr.New(trainerr.ClassCheckFail, "hash local file", err).WithStation(st.Name.String())
			}

			client, err := pool.Client(ctx, cfg.SSH)
			if err != nil {
				return "", trainerr.New(trainerr.ClassCheckFail, "connect to remote host", err).WithStation(st.Name.String())
			}

			remote, err := client.ComputeChecksum(ctx, cfg.RemotePath)
			if err != nil {
				// No remote file (or unreadable) means work is required,
				// not a check failure: treat any checksum error as absence.
				return station.WorkRequired, nil
			}
			if remote == local {
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
		func(ctx context.Context, st *station.Mut, _ *resources.Map, pool *Pool) (station.ResIds, error) {
			client, err := pool.Client(ctx, cfg.SSH)
			if err != nil {
				return nil, trainerr.New(trainerr.ClassWorkFail, "connect to remote host", err).WithStation(st.Name.String())
			}

			mode := cfg.Mode
			if mode == 0 {
				mode = 0o644
			}
			if err := client.UploadFile(ctx, cfg.LocalPath, cfg.RemotePath, mode); err != nil {
				return nil, trainerr.New(trainerr.ClassWorkFail, "upload file", err).WithStation(st.Name.String())
			}

			return station.ResIds{
				"remote_path": cfg.RemotePath,
				"host":        cfg.SSH.Address(),
			}, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	cleanCheck, err := stationfn.New[station.CheckStatus](
		func(ctx context.Context, st *station.Mut, _ *resources.Map, pool *Pool) (station.CheckStatus, error) {
			client, err := pool.Client(ctx, cfg.SSH)
			if err != nil {
				return "", trainerr.New(trainerr.ClassCheckFail, "connect to remote host", err).WithStation(st.Name.String())
			}
			if _, err := client.ComputeChecksum(ctx, cfg.RemotePath); err != nil {
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
		func(ctx context.Context, st *station.Mut, _ *resources.Map, pool *Pool) (station.Unit, error) {
			client, err := pool.Client(ctx, cfg.SSH)
			if err != nil {
				return station.Unit{}, trainerr.New(trainerr.ClassWorkFail, "connect to remote host", err).WithStation(st.Name.String())
			}
			_, stderr, err := client.ExecuteCommand(ctx, fmt.Sprintf("rm -f %s", cfg.RemotePath))
			if err != nil {
				return station.Unit{}, trainerr.New(trainerr.ClassWorkFail, "remove remote file", errors.New(stderr)).WithStation(st.Name.String())
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
		WithName(fmt.Sprintf("upload:%s", id)).
		WithDescription(fmt.Sprintf("upload %s to %s:%s", cfg.LocalPath, cfg.SSH.Address(), cfg.RemotePath)).
		WithProgressUnit(station.ProgressUnitBytes).
		Build(), nil
}

// FactoryConfig is the JSON shape an "upload" station's StationConfig.Config
// decodes to. A station names either HostID, resolved against a
// hostinv.Registry at factory time, or an inline SSH block; HostID is the
// declarative-authoring path hostinv.Host.SSHConfig documents.
type FactoryConfig struct {
	HostID     string      `json:"host_id,omitempty"`
	SSH        *ssh.Config `json:"ssh,omitempty"`
	LocalPath  string      `json:"local_path"`
	RemotePath string      `json:"remote_path"`
	Mode       uint32      `json:"mode,omitempty"`
}

// NewFactory returns a config.StationFactory for kind "upload" that
// resolves FactoryConfig.HostID through hosts to obtain the remote host's
// ssh.Config, falling back to FactoryConfig.SSH when HostID is empty. hosts
// may be nil if every upload station in the configuration supplies its own
// inline ssh block.
func NewFactory(hosts *hostinv.Registry) func(id station.ID, raw json.RawMessage) (station.Spec, error) {
	return func(id station.ID, raw json.RawMessage) (station.Spec, error) {
		var fc FactoryConfig
		if err := json.Unmarshal(raw, &fc); err != nil {
			return station.Spec{}, fmt.Errorf("upload: decode config for station %q: %w", id, err)
		}

		sshCfg := fc.SSH
		if fc.HostID != "" {
			if hosts == nil {
				return station.Spec{}, fmt.Errorf("upload: station %q names host_id %q but no host registry is configured", id, fc.HostID)
			}
			host, err := hosts.GetHost(context.Background(), fc.HostID)
			if err != nil {
				return station.Spec{}, fmt.Errorf("upload: station %q: resolve host %q: %w", id, fc.HostID, err)
			}
			sshCfg = host.SSHConfig()
		}
		if sshCfg == nil {
			return station.Spec{}, fmt.Errorf("upload: station %q: config must set either host_id or ssh", id)
		}

		return Spec(id, Config{SSH: sshCfg, LocalPath: fc.LocalPath, RemotePath: fc.RemotePath, Mode: fc.Mode})
	}
}
