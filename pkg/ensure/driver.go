package ensure

import (
	"context"
	"fmt"

	"github.com/railgraph/railgraph/pkg/resources"
	"github.com/railgraph/railgraph/pkg/station"
	"github.com/railgraph/railgraph/pkg/telemetry"
)

// Kind discriminates the outcomes the driver can reach (spec.md §4.6).
type Kind string

const (
	// CheckBorrowFail: the pre-check's declared parameters could not be borrowed.
	CheckBorrowFail Kind = "check_borrow_fail"

	// CheckFail: the pre-check ran and returned a user error.
	CheckFail Kind = "check_fail"

	// Unchanged: the pre-check reported WorkNotRequired; work_fn did not run.
	Unchanged Kind = "unchanged"

	// VisitBorrowFail: work_fn's declared parameters could not be borrowed.
	VisitBorrowFail Kind = "visit_borrow_fail"

	// WorkFail: work_fn ran and returned a user error.
	WorkFail Kind = "work_fail"

	// Changed: work_fn ran to completion. SpecBug is non-nil if a post-check
	// reported anything other than WorkNotRequired.
	Changed Kind = "changed"

	// NothingToDo: clean mode and the station has no clean operation.
	NothingToDo Kind = "nothing_to_do"
)

// SpecBugError records that a post-work check still reported WorkRequired
// (or itself failed) immediately after a successful work_fn — a station
// authoring bug, not a transient failure (spec.md §4.6 step 4,
// StationSpecError::WorkRequiredAfterVisit).
type SpecBugError struct {
	ID station.ID
}

func (e *SpecBugError) Error() string {
	return fmt.Sprintf("ensure: station %q: check_fn reported work still required immediately after work_fn succeeded", e.ID)
}

// Result is the outcome of driving one station through Drive.
type Result[WorkRet any] struct {
	Kind    Kind
	Ret     WorkRet
	Err     error
	SpecBug *SpecBugError
}

// Drive runs the check/work/re-check protocol for op against st and res. A
// nil op (clean mode with no clean operation registered) immediately yields
// NothingToDo without borrowing or calling anything. Each phase is wrapped
// in telemetry.RecordPhaseOperation, which opens a "station.<phase>" span
// and records phase-call metrics when ctx carries a *telemetry.Telemetry
// (SPEC_FULL.md §2.1-§2.2); with no telemetry in ctx, it only runs fn.
func Drive[WorkRet any](ctx context.Context, st *station.Mut, res *resources.Map, op *station.OpFns[WorkRet]) Result[WorkRet] {
	stationID := st.Name.String()
	log := telemetry.FromContext(ctx).WithStationID(stationID)

	if op == nil {
		return Result[WorkRet]{Kind: NothingToDo}
	}

	if op.Check != nil {
		var status station.CheckStatus
		err := telemetry.RecordPhaseOperation(ctx, stationID, "check", func() error {
			s, err := op.Check.TryCall(ctx, st, res)
			status = s
			return err
		})
		if err != nil {
			if resources.IsBorrowFail(err) {
				log.WithPhase("check").WithError(err).Debug("check_fn borrow failed")
				return Result[WorkRet]{Kind: CheckBorrowFail, Err: err}
			}
			log.WithPhase("check").WithError(err).Error("check_fn failed")
			return Result[WorkRet]{Kind: CheckFail, Err: err}
		}
		if status == station.WorkNotRequired {
			log.WithPhase("check").Info("work not required")
			return Result[WorkRet]{Kind: Unchanged}
		}
	}

	var ret WorkRet
	err := telemetry.RecordPhaseOperation(ctx, stationID, "work", func() error {
		r, err := op.Work.TryCall(ctx, st, res)
		ret = r
		return err
	})
	if err != nil {
		if resources.IsBorrowFail(err) {
			log.WithPhase("work").WithError(err).Debug("work_fn borrow failed")
			return Result[WorkRet]{Kind: VisitBorrowFail, Err: err}
		}
		log.WithPhase("work").WithError(err).Error("work_fn failed")
		// Partial artefacts (ret) are still reported alongside the error,
		// per spec.md §4.6 step 3: "pass both out as WorkFail{res_ids, error}".
		return Result[WorkRet]{Kind: WorkFail, Ret: ret, Err: err}
	}
	log.WithPhase("work").Info("work_fn succeeded")

	var specBug *SpecBugError
	if op.Check != nil {
		var postStatus station.CheckStatus
		postErr := telemetry.RecordPhaseOperation(ctx, stationID, "check.post", func() error {
			s, err := op.Check.TryCall(ctx, st, res)
			postStatus = s
			return err
		})
		if postErr != nil || postStatus != station.WorkNotRequired {
			specBug = &SpecBugError{ID: st.Name}
			log.WithPhase("check.post").WithError(specBug).Error("station spec bug: work still required after work_fn")
		}
	}

	return Result[WorkRet]{Kind: Changed, Ret: ret, SpecBug: specBug}
}
