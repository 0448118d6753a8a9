package trainerr

import (
	"errors"
	"fmt"
)

// Class classifies a TrainError for status-propagation and fatality purposes.
type Class string

const (
	// ClassBorrow indicates a resource-map borrow conflict or missing value.
	ClassBorrow Class = "borrow"

	// ClassCheckFail indicates a station's check_fn returned an error.
	ClassCheckFail Class = "check_fail"

	// ClassWorkFail indicates a station's work_fn returned an error.
	ClassWorkFail Class = "work_fail"

	// ClassSetupFail indicates a station's setup_fn returned an error.
	ClassSetupFail Class = "setup_fail"

	// ClassParentFail indicates propagation from a predecessor/successor failure.
	// No user function was invoked for the station carrying this class.
	ClassParentFail Class = "parent_fail"

	// ClassStationSpecBug indicates a station-authoring bug (e.g. a check_fn
	// that still reports WorkRequired immediately after a successful work_fn).
	ClassStationSpecBug Class = "station_spec_bug"

	// ClassInternal indicates an engine-internal failure (directory creation,
	// serialization, channel plumbing). Internal errors are always fatal:
	// Train.ReachCreate/ReachClean return them directly and no partial
	// TrainReport is produced.
	ClassInternal Class = "internal"
)

// Code values for Class = ClassInternal errors, returned directly from
// Train.ReachCreate / Train.ReachClean per spec.md §7.
const (
	CodeWorkingDirRead       = "WORKING_DIR_READ"
	CodeWorkspaceFileMissing = "WORKSPACE_FILE_NOT_FOUND"
	CodeProfileDirCreate     = "PROFILE_DIR_CREATE"
	CodeStationDirCreate     = "STATION_DIR_CREATE"
	CodeResIDWrite           = "RES_ID_WRITE"
	CodeResIDSerialize       = "RES_ID_SERIALIZE"
	CodeStationQueue         = "STATION_QUEUE"
	CodeStationVisitNotify   = "STATION_VISIT_NOTIFY"
)

// TrainError is railgraph's classified error type. It is the concrete error
// behind the generic E of spec.md's OpFns<WorkRet, WorkErr, E> whenever an
// embedding application does not bring its own error type, and it is always
// the type used for engine-internal failures.
type TrainError struct {
	Class     Class
	Message   string
	Code      string
	StationID string
	Cause     error
}

// New creates a TrainError with the given class and message.
func New(class Class, message string, cause error) *TrainError {
	return &TrainError{Class: class, Message: message, Cause: cause}
}

// Borrowf creates a ClassBorrow error.
func Borrowf(format string, args ...interface{}) *TrainError {
	return &TrainError{Class: ClassBorrow, Message: fmt.Sprintf(format, args...)}
}

// Internal creates a ClassInternal error carrying one of the Code* constants.
func Internal(code, message string, cause error) *TrainError {
	return &TrainError{Class: ClassInternal, Code: code, Message: message, Cause: cause}
}

func (e *TrainError) Error() string {
	if e.StationID != "" {
		return fmt.Sprintf("[%s] station %s: %s", e.Class, e.StationID, e.detail())
	}
	return fmt.Sprintf("[%s] %s", e.Class, e.detail())
}

func (e *TrainError) detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *TrainError) Unwrap() error { return e.Cause }

// Is compares two TrainErrors by class and code, as the teacher's
// EngineError does for its own Class/Code pair.
func (e *TrainError) Is(target error) bool {
	var t *TrainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// WithStation attaches the originating station's ID.
func (e *TrainError) WithStation(id string) *TrainError {
	e.StationID = id
	return e
}

// WithCode attaches a programmatic error code.
func (e *TrainError) WithCode(code string) *TrainError {
	e.Code = code
	return e
}

// IsFatal reports whether err must abort the whole run rather than be
// recorded against a single station. Only ClassInternal errors are fatal
// (spec.md §7 "Fatality").
func IsFatal(err error) bool {
	var e *TrainError
	if errors.As(err, &e) {
		return e.Class == ClassInternal
	}
	return false
}

// ClassOf returns the Class of err, or "" if err is not a *TrainError.
func ClassOf(err error) Class {
	var e *TrainError
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}
