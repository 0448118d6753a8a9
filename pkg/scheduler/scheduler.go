package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/railgraph/railgraph/pkg/destination"
	"github.com/railgraph/railgraph/pkg/ensure"
	"github.com/railgraph/railgraph/pkg/persist"
	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/telemetry"
	"github.com/railgraph/railgraph/pkg/trainerr"
)

// ErrorRecorder is the per-destination error table the scheduler writes
// into on any non-internal station failure (spec.md §3 "TrainResources": a
// reader/writer-locked error table, keyed by station). Train implements
// this; the scheduler only ever needs the write side.
type ErrorRecorder interface {
	RecordError(rtID station.RtID, err *trainerr.TrainError)
}

// Options configures a single Run.
type Options struct {
	// MaxConcurrency bounds the number of stations with WorkInProgress at
	// once. Zero means unbounded (spec.md §4.8 "default: unbounded").
	MaxConcurrency int
}

// RunCreate drives dest forward: topological setup, then concurrent work in
// dependency order, streaming completed stations' ResIds on persisterCh.
// RunCreate closes persisterCh once every station has reached a terminal
// status (spec.md §4.7: "the two halves are joined at the end of the
// create run").
func RunCreate(
	ctx context.Context,
	dest *destination.Destination,
	res *resources.Map,
	recorder ErrorRecorder,
	persisterCh chan<- persist.Entry,
	opts Options,
) {
	defer close(persisterCh)

	order := dest.Graph().Topological()
	run(engine[station.ResIds]{
		ctx:            ctx,
		dest:           dest,
		res:            res,
		recorder:       recorder,
		order:          order,
		opKind:         "create",
		predecessorsOf: dest.Graph().LogicParents,
		successorsOf:   dest.Graph().LogicChildren,
		setupOf: func(spec station.Spec) station.Caller[station.ProgressLimit] {
			return spec.Op.Create.Setup
		},
		opOf: func(spec station.Spec) *station.OpFns[station.ResIds] {
			return &spec.Op.Create
		},
		onResult: func(rtID station.RtID, id station.ID, ret station.ResIds) {
			persisterCh <- persist.Entry{StationID: id, ResIds: ret}
		},
		maxConcurrency: opts.MaxConcurrency,
	})
}

// RunClean drives dest in reverse: dependents are torn down before their
// dependencies, using each station's clean operation. Stations with no
// clean operation registered (Op.Clean == nil) reach WorkUnnecessary
// without running anything (spec.md: "Op bundles ... Clean"). Clean
// produces no ResIds to persist, so there is no persister channel.
func RunClean(
	ctx context.Context,
	dest *destination.Destination,
	res *resources.Map,
	recorder ErrorRecorder,
	opts Options,
) {
	order := dest.Graph().ReverseTopological()
	run(engine[station.Unit]{
		ctx:            ctx,
		dest:           dest,
		res:            res,
		recorder:       recorder,
		order:          order,
		opKind:         "clean",
		predecessorsOf: dest.Graph().LogicChildren,
		successorsOf:   dest.Graph().LogicParents,
		setupOf: func(spec station.Spec) station.Caller[station.ProgressLimit] {
			if spec.Op.Clean == nil {
				return nil
			}
			return spec.Op.Clean.Setup
		},
		opOf: func(spec station.Spec) *station.OpFns[station.Unit] {
			return spec.Op.Clean
		},
		onResult:       func(station.RtID, station.ID, station.Unit) {},
		maxConcurrency: opts.MaxConcurrency,
	})
}

// engine bundles one traversal's mode-specific behaviour: which direction
// counts as "predecessor", which Op to drive, and what to do with a
// completed station's WorkRet. RunCreate and RunClean each instantiate this
// once; run implements the single scheduling algorithm spec.md §4.8
// describes as shared between both traversal modes.
type engine[WorkRet any] struct {
	ctx      context.Context
	dest     *destination.Destination
	res      *resources.Map
	recorder ErrorRecorder
	order    []station.RtID

	// opKind labels this traversal ("create" or "clean") for telemetry.
	opKind string

	predecessorsOf func(station.RtID) []station.RtID
	successorsOf   func(station.RtID) []station.RtID
	setupOf        func(station.Spec) station.Caller[station.ProgressLimit]
	opOf           func(station.Spec) *station.OpFns[WorkRet]
	onResult       func(station.RtID, station.ID, WorkRet)

	maxConcurrency int
}

func run[WorkRet any](e engine[WorkRet]) {
	log := telemetry.FromContext(e.ctx).NewComponentLogger("scheduler")
	tel := telemetry.FromTelemetryContext(e.ctx)

	muts := make(map[station.RtID]*station.Mut, len(e.order))
	for _, rtID := range e.order {
		spec := e.dest.Spec(rtID)
		muts[rtID] = &station.Mut{ID: rtID, Name: spec.ID, Progress: e.dest.Progress(rtID)}
	}

	// Phase 1 (spec.md §4.8 step 1): sequential setup, in traversal order.
	for _, rtID := range e.order {
		spec := e.dest.Spec(rtID)
		progress := e.dest.Progress(rtID)
		mut := muts[rtID]
		stationID := spec.ID.String()
		stationLog := log.WithStationID(stationID)

		var setupErr error
		start := time.Now()
		if setupCaller := e.setupOf(spec); setupCaller != nil {
			limit, err := setupCaller.TryCall(e.ctx, mut, e.res)
			if err != nil {
				setupErr = err
			} else {
				progress.SetLimit(limit)
			}
		}
		if tel != nil {
			tel.Metrics.RecordPhaseCall("setup", time.Since(start))
		}

		hasPredecessor := len(e.predecessorsOf(rtID)) > 0
		next := station.NextSetupStatus(setupErr, hasPredecessor)
		progress.SetStatus(next)
		stationLog.WithField("status", string(next)).Info("setup phase complete")
		if setupErr != nil {
			if resources.IsBorrowFail(setupErr) {
				stationLog.WithPhase("setup").WithError(setupErr).Debug("setup_fn borrow failed")
			} else {
				stationLog.WithPhase("setup").WithError(setupErr).Error("setup_fn failed")
			}
			if tel != nil {
				tel.Metrics.RecordPhaseError("setup")
			}
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassSetupFail, "setup_fn failed", setupErr).WithStation(stationID))
		}
	}

	// Phase 2 (spec.md §4.8 steps 2-4): bounded-concurrency work phase,
	// readiness re-derived from the status map after every completion.
	var sem chan struct{}
	if e.maxConcurrency > 0 {
		sem = make(chan struct{}, e.maxConcurrency)
	}
	var wg sync.WaitGroup

	var propagate func(rtID station.RtID)
	var process func(rtID station.RtID)

	process = func(rtID station.RtID) {
		defer wg.Done()
		if sem != nil {
			sem <- struct{}{}
			defer func() { <-sem }()
		}

		spec := e.dest.Spec(rtID)
		progress := e.dest.Progress(rtID)
		mut := muts[rtID]
		stationID := spec.ID.String()
		stationLog := log.WithStationID(stationID)

		progress.SetStatus(station.WorkInProgress)
		stationLog.Info("work phase starting")

		start := time.Now()
		result := ensure.Drive(e.ctx, mut, e.res, e.opOf(spec))
		duration := time.Since(start)

		checkFailed := result.Kind == ensure.CheckFail || result.Kind == ensure.CheckBorrowFail
		workNotRequired := result.Kind == ensure.Unchanged || result.Kind == ensure.NothingToDo
		workFailed := result.Kind == ensure.WorkFail || result.Kind == ensure.VisitBorrowFail
		next := station.NextWorkStatus(checkFailed, workNotRequired, workFailed)
		progress.SetStatus(next)
		stationLog.WithField("status", string(next)).Info("work phase complete")

		if tel != nil {
			tel.Metrics.RecordStationExecution(e.opKind, string(next), duration, "work")
		}

		switch result.Kind {
		case ensure.CheckBorrowFail:
			stationLog.WithPhase("check").WithError(result.Err).Debug("check_fn borrow failed")
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassCheckFail, "check_fn failed", result.Err).WithStation(stationID))
		case ensure.CheckFail:
			stationLog.WithPhase("check").WithError(result.Err).Error("check_fn failed")
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassCheckFail, "check_fn failed", result.Err).WithStation(stationID))
		case ensure.VisitBorrowFail:
			stationLog.WithPhase("work").WithError(result.Err).Debug("work_fn borrow failed")
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassBorrow, "work_fn borrow failed", result.Err).WithStation(stationID))
		case ensure.WorkFail:
			stationLog.WithPhase("work").WithError(result.Err).Error("work_fn failed")
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassWorkFail, "work_fn failed", result.Err).WithStation(stationID))
		}
		if result.SpecBug != nil {
			stationLog.WithError(result.SpecBug).Error("station spec bug recorded")
			e.recorder.RecordError(rtID, trainerr.New(trainerr.ClassStationSpecBug, result.SpecBug.Error(), result.SpecBug).WithStation(stationID))
		}
		if result.Kind == ensure.Changed || result.Kind == ensure.WorkFail {
			e.onResult(rtID, spec.ID, result.Ret)
		}

		propagate(rtID)
	}

	propagate = func(rtID station.RtID) {
		for _, succ := range e.successorsOf(rtID) {
			succProgress := e.dest.Progress(succ)
			if succProgress.Status() != station.ParentPending {
				continue
			}

			preds := e.predecessorsOf(succ)
			statuses := make([]station.OpStatus, len(preds))
			for i, pred := range preds {
				statuses[i] = e.dest.Progress(pred).Status()
			}

			next := station.NextParentStatus(statuses)
			if next == "" {
				continue
			}
			if !succProgress.CompareAndSetStatus(station.ParentPending, next) {
				continue
			}

			switch next {
			case station.OpQueued:
				wg.Add(1)
				go process(succ)
			case station.ParentFail:
				succSpec := e.dest.Spec(succ)
				e.recorder.RecordError(succ, trainerr.New(trainerr.ClassParentFail, "a dependency failed", nil).WithStation(succSpec.ID.String()))
				propagate(succ)
			}
		}
	}

	for _, rtID := range e.order {
		switch e.dest.Progress(rtID).Status() {
		case station.OpQueued:
			wg.Add(1)
			go process(rtID)
		case station.SetupFail:
			propagate(rtID)
		}
	}

	wg.Wait()
}
