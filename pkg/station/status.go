package station

import "fmt"

// OpStatus is the single status enum shared by the setup and work phases
// (spec.md §4.3 treats them as one machine applied in sequence).
type OpStatus string

const (
	// SetupQueued is the initial status of every station at destination build.
	SetupQueued OpStatus = "setup_queued"

	// SetupSuccess indicates setup_fn returned without error.
	SetupSuccess OpStatus = "setup_success"

	// SetupFail indicates setup_fn returned an error. Terminal.
	SetupFail OpStatus = "setup_fail"

	// ParentPending indicates setup succeeded but at least one logical
	// predecessor (successor, in clean mode) has not yet reached a
	// terminal-success status.
	ParentPending OpStatus = "parent_pending"

	// ParentFail indicates a predecessor (successor, in clean mode) failed;
	// no user function is invoked for a station in this status. Terminal.
	ParentFail OpStatus = "parent_fail"

	// OpQueued indicates all predecessors succeeded (or none exist); the
	// station is ready for the scheduler to run its ensure driver.
	OpQueued OpStatus = "op_queued"

	// WorkInProgress indicates the scheduler has picked the station and the
	// ensure driver is running.
	WorkInProgress OpStatus = "work_in_progress"

	// WorkUnnecessary indicates check_fn reported WorkNotRequired and work
	// was skipped. Terminal.
	WorkUnnecessary OpStatus = "work_unnecessary"

	// WorkSuccess indicates work_fn ran to completion. Terminal.
	WorkSuccess OpStatus = "work_success"

	// WorkFail indicates work_fn returned an error. Terminal.
	WorkFail OpStatus = "work_fail"

	// CheckFail indicates a check_fn call itself failed, pre- or post-work.
	// Terminal.
	CheckFail OpStatus = "check_fail"
)

// Validate reports whether s is one of the eleven defined OpStatus values.
func (s OpStatus) Validate() error {
	switch s {
	case SetupQueued, SetupSuccess, SetupFail, ParentPending, ParentFail,
		OpQueued, WorkInProgress, WorkUnnecessary, WorkSuccess, WorkFail, CheckFail:
		return nil
	default:
		return fmt.Errorf("invalid op status: %s", s)
	}
}

// IsTerminal reports whether s never transitions further (spec.md §4.3
// invariants: "Terminal states never transition").
func (s OpStatus) IsTerminal() bool {
	switch s {
	case WorkSuccess, WorkUnnecessary, WorkFail, CheckFail, SetupFail, ParentFail:
		return true
	default:
		return false
	}
}

// IsTerminalSuccess reports whether s counts as a successful predecessor for
// the purpose of unblocking ParentPending successors (spec.md §4.3:
// "WorkSuccess | WorkUnnecessary ... transitions the node ... to OpQueued").
func (s OpStatus) IsTerminalSuccess() bool {
	return s == WorkSuccess || s == WorkUnnecessary
}

// IsTerminalFailure reports whether s counts as a failing predecessor,
// propagating ParentFail to pending successors.
func (s OpStatus) IsTerminalFailure() bool {
	return s == WorkFail || s == CheckFail || s == ParentFail || s == SetupFail
}

// isSetupPhase and isWorkPhase back the assertions in §4.3: "during setup,
// reaching a work-phase status is a bug" and vice versa.
func (s OpStatus) isSetupPhase() bool {
	return s == SetupQueued || s == SetupSuccess || s == SetupFail
}

func (s OpStatus) isWorkPhase() bool {
	switch s {
	case ParentPending, ParentFail, OpQueued, WorkInProgress, WorkUnnecessary, WorkSuccess, WorkFail, CheckFail:
		return true
	default:
		return false
	}
}

// CheckStatus is the result of a check_fn call: does the station's desired
// state already hold?
type CheckStatus string

const (
	// WorkRequired indicates the station's desired state does not yet hold.
	WorkRequired CheckStatus = "work_required"

	// WorkNotRequired indicates the station is already in its desired state.
	WorkNotRequired CheckStatus = "work_not_required"
)

// NextSetupStatus computes the status a station moves to once setup_fn
// returns, given whether it has any logical predecessor. It is the "pure
// function of current state" design note (§9): independent of DAG walk
// order, callers supply only what they already know.
func NextSetupStatus(setupErr error, hasPredecessor bool) OpStatus {
	if setupErr != nil {
		return SetupFail
	}
	if hasPredecessor {
		return ParentPending
	}
	return OpQueued
}

// NextParentStatus computes the status a ParentPending station moves to once
// its predecessor statuses are known, or "" if no transition is yet
// warranted (some predecessors are still pending). predecessorStatuses must
// be gathered by the caller by walking the node's logical predecessors (or
// successors, in clean mode).
func NextParentStatus(predecessorStatuses []OpStatus) OpStatus {
	anyFailed := false
	allSuccess := true
	for _, s := range predecessorStatuses {
		if s.IsTerminalFailure() {
			anyFailed = true
		}
		if !s.IsTerminalSuccess() {
			allSuccess = false
		}
	}
	switch {
	case anyFailed:
		return ParentFail
	case allSuccess:
		return OpQueued
	default:
		return ""
	}
}

// NextWorkStatus computes the status a WorkInProgress station moves to given
// the ensure driver's outcome kind. See ensure.Outcome for the source kinds;
// this function is expressed over the simplified dimensions the status
// machine actually discriminates on to keep it testable independent of the
// ensure package.
func NextWorkStatus(checkFailed, workNotRequired, workFailed bool) OpStatus {
	switch {
	case checkFailed:
		return CheckFail
	case workNotRequired:
		return WorkUnnecessary
	case workFailed:
		return WorkFail
	default:
		return WorkSuccess
	}
}
