package dbrow

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/stationfn"
	"github.com/railgraph/railgraph/pkg/stores"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dbFileName = "dbrow.sqlite3"

// Config is the closure-captured configuration for one dbrow station.
type Config struct {
	// LogicalName is this station's half of the natural key
	// (station_id, logical_name) that identifies its row.
	LogicalName string

	// Payload is the exact text the work function writes into the row.
	Payload string
}

func dbPath(dirs *destination.Dirs) string {
	return filepath.Join(dirs.ProfileDir, dbFileName)
}

// ensureStore initializes and migrates the shared stores.SQLiteStore value
// in res on the first call from any dbrow station in this run. Subsequent
// calls, from this or any other dbrow station, observe it already present
// and do nothing.
func ensureStore(ctx context.Context, res *resources.Map, dirs *destination.Dirs) error {
	if resources.Contains[stores.SQLiteStore](res) {
		return nil
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath(dirs)})
	if err != nil {
		return fmt.Errorf("dbrow: open store: %w", err)
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("dbrow: init store: %w", err)
	}
	if err := store.Migrate(ctx, migrations, "migrations"); err != nil {
		return fmt.Errorf("dbrow: migrate store: %w", err)
	}
	resources.Insert(res, *store)
	return nil
}

// Spec builds a station.Spec for id that drives a single row identified by
// (id, cfg.LogicalName) to existence in the destination's shared SQLite
// database. Create is idempotent: check_fn compares the stored payload
// against cfg.Payload. Clean deletes the row if present.
func Spec(id station.ID, cfg Config) (station.Spec, error) {
	setup, err := stationfn.New[station.ProgressLimit](
		func(ctx context.Context, _ *station.Mut, res *resources.Map, dirs *destination.Dirs) (station.ProgressLimit, error) {
			if err := ensureStore(ctx, res, dirs); err != nil {
				return station.ProgressLimit{}, trainerr.New(trainerr.ClassSetupFail, "ensure shared store", err).WithStation(id.String())
			}
			return station.StepsLimit(1), nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	check, err := stationfn.New[station.CheckStatus](
		func(ctx context.Context, st *station.Mut, res *resources.Map, store *stores.SQLiteStore) (station.CheckStatus, error) {
			var payload string
			row := store.DB().QueryRowContext(ctx,
				`SELECT payload FROM station_rows WHERE station_id = ? AND logical_name = ?`,
				id.String(), cfg.LogicalName)
			switch err := row.Scan(&payload); {
			case errors.Is(err, sql.ErrNoRows):
				return station.WorkRequired, nil
			case err != nil:
				return "", trainerr.New(trainerr.ClassCheckFail, "query existing row", err).WithStation(st.Name.String())
			case payload == cfg.Payload:
				return station.WorkNotRequired, nil
			default:
				return station.WorkRequired, nil
			}
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	work, err := stationfn.New[station.ResIds](
		func(ctx context.Context, st *station.Mut, res *resources.Map, store *stores.SQLiteStore) (station.ResIds, error) {
			_, err := store.DB().ExecContext(ctx,
				`INSERT INTO station_rows (station_id, logical_name, payload) VALUES (?, ?, ?)
				 ON CONFLICT (station_id, logical_name) DO UPDATE SET payload = excluded.payload`,
				id.String(), cfg.LogicalName, cfg.Payload)
			if err != nil {
				return nil, trainerr.New(trainerr.ClassWorkFail, "upsert row", err).WithStation(st.Name.String())
			}
			return station.ResIds{"logical_name": cfg.LogicalName}, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	cleanCheck, err := stationfn.New[station.CheckStatus](
		func(ctx context.Context, st *station.Mut, res *resources.Map, store *stores.SQLiteStore) (station.CheckStatus, error) {
			var exists int
			err := store.DB().QueryRowContext(ctx,
				`SELECT 1 FROM station_rows WHERE station_id = ? AND logical_name = ?`,
				id.String(), cfg.LogicalName).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return station.WorkNotRequired, nil
			}
			if err != nil {
				return "", trainerr.New(trainerr.ClassCheckFail, "query row existence", err).WithStation(st.Name.String())
			}
			return station.WorkRequired, nil
		},
		stationfn.ModeShared,
	)
	if err != nil {
		return station.Spec{}, err
	}

	cleanWork, err := stationfn.New[station.Unit](
		func(ctx context.Context, st *station.Mut, res *resources.Map, store *stores.SQLiteStore) (station.Unit, error) {
			if _, err := store.DB().ExecContext(ctx,
				`DELETE FROM station_rows WHERE station_id = ? AND logical_name = ?`,
				id.String(), cfg.LogicalName); err != nil {
				return station.Unit{}, trainerr.New(trainerr.ClassWorkFail, "delete row", err).WithStation(st.Name.String())
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
		WithName(fmt.Sprintf("dbrow:%s", id)).
		WithDescription(fmt.Sprintf("manage row %s/%s", id, cfg.LogicalName)).
		WithProgressUnit(station.ProgressUnitNone).
		Build(), nil
}

// FactoryConfig is the JSON shape a "dbrow" station's StationConfig.Config
// decodes to.
type FactoryConfig struct {
	LogicalName string `json:"logical_name"`
	Payload     string `json:"payload"`
}

// Factory adapts Spec to the config.StationFactory shape, so "dbrow" can be
// registered in a config.Registry (see pkg/stationfns.DefaultRegistry).
func Factory(id station.ID, raw json.RawMessage) (station.Spec, error) {
	var fc FactoryConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return station.Spec{}, fmt.Errorf("dbrow: decode config for station %q: %w", id, err)
	}
	return Spec(id, Config{LogicalName: fc.LogicalName, Payload: fc.Payload})
}
