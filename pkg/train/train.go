package train

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/persist"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/scheduler"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/telemetry"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// Train is the entry point spec.md §6 names: Train::reach_create and
// Train::reach_clean, each driving a Destination to completion. The zero
// value runs unbounded concurrency with no telemetry; WithMaxConcurrency
// caps concurrency and WithTelemetry attaches logging, tracing, and metrics.
type Train struct {
	MaxConcurrency int
	Telemetry      *telemetry.Telemetry
	User           string
}

// New creates a Train with unbounded concurrency.
func New() *Train { return &Train{} }

// WithMaxConcurrency caps the number of stations concurrently in
// WorkInProgress and returns t for chaining.
func (t *Train) WithMaxConcurrency(n int) *Train {
	t.MaxConcurrency = n
	return t
}

// WithTelemetry attaches tel so every run logs station lifecycle
// transitions, traces each station phase, and records run/station/phase
// metrics (SPEC_FULL.md §2.1-§2.2). A nil Train.Telemetry disables all of
// this without changing behaviour otherwise.
func (t *Train) WithTelemetry(tel *telemetry.Telemetry) *Train {
	t.Telemetry = tel
	return t
}

// runContext attaches t.Telemetry to ctx (if set) and starts a run span and
// run-started metric/event, returning the enriched context and the run ID
// future EndRunContext calls need.
func (t *Train) runContext(ctx context.Context) (context.Context, string) {
	runID := uuid.NewString()
	if t.Telemetry == nil {
		return ctx, runID
	}
	ctx = t.Telemetry.WithContext(ctx)
	ctx = telemetry.WithRunContext(ctx, runID, t.User)
	return ctx, runID
}

// ReachCreate drives every station's create operation to completion,
// persisting each station's ResIds as it completes (spec.md §4.7). It
// returns a *trainerr.TrainError directly, with no Report, only for
// engine-internal failures (directory creation, serialization); every user
// station failure is instead recorded in the returned Report's error table
// (spec.md §7 "Fatality").
func (t *Train) ReachCreate(ctx context.Context, dest *destination.Destination) (*Report, error) {
	res, err := t.prepare(dest)
	if err != nil {
		return nil, err
	}

	ctx, runID := t.runContext(ctx)
	if t.Telemetry != nil {
		defer func() {
			status := "completed"
			if err != nil {
				status = "failed"
			}
			telemetry.EndRunContext(ctx, runID, status, err)
		}()
	}

	dirs := dest.Dirs()
	var logger *telemetry.Logger
	if t.Telemetry != nil {
		logger = t.Telemetry.Logger
	}
	persister := persist.NewWithLogger(logger)
	ch := make(chan persist.Entry, 64)

	var mu sync.Mutex
	var resIds station.ResIds
	var persistErr error

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for entry := range ch {
			mu.Lock()
			resIds = resIds.Merge(entry.ResIds)
			mu.Unlock()

			if err := persister.Persist(dirs, entry.StationID, entry.ResIds); err != nil {
				mu.Lock()
				if persistErr == nil {
					persistErr = err
				}
				mu.Unlock()
			}
		}
	}()

	scheduler.RunCreate(ctx, dest, res.Map, res, ch, scheduler.Options{MaxConcurrency: t.MaxConcurrency})
	wg.Wait()

	if persistErr != nil {
		err = persistErr
		return nil, persistErr
	}
	return &Report{Resources: res, ResIds: resIds}, nil
}

// ReachClean drives every station's clean operation, dependents first
// (spec.md §4.8). Stations with no clean operation reach WorkUnnecessary
// without running anything. A clean run produces no ResIds.
func (t *Train) ReachClean(ctx context.Context, dest *destination.Destination) (*Report, error) {
	res, err := t.prepare(dest)
	if err != nil {
		return nil, err
	}

	ctx, runID := t.runContext(ctx)
	if t.Telemetry != nil {
		defer func() {
			status := "completed"
			if err != nil {
				status = "failed"
			}
			telemetry.EndRunContext(ctx, runID, status, err)
		}()
	}

	scheduler.RunClean(ctx, dest, res.Map, res, scheduler.Options{MaxConcurrency: t.MaxConcurrency})
	return &Report{Resources: res, ResIds: station.ResIds{}}, nil
}

// prepare ensures the destination's directories exist, builds a fresh
// Resources, and makes the destination's directory layout available to any
// station function that declares destination.Dirs as a parameter — the
// hook a clean station's setup_fn uses to load back its own persisted
// ResIds via persist.Loader, keyed by its own station.Mut.Name.
func (t *Train) prepare(dest *destination.Destination) (*Resources, error) {
	order := dest.StationsOrdered()
	ids := make([]string, 0, len(order))
	for _, o := range order {
		ids = append(ids, o.ID.String())
	}

	dirs := dest.Dirs()
	if err := destination.EnsureDirs(dirs, ids); err != nil {
		return nil, trainerr.Internal(trainerr.CodeStationDirCreate, "ensure destination directories", err)
	}

	res := NewResources()
	resources.Insert(res.Map, dirs)
	return res, nil
}
