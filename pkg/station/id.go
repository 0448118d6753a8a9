package station

import (
	"fmt"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ID is a station's stable, user-authored identifier. It must be non-empty
// and match [A-Za-z0-9_]+; uniqueness within a destination is enforced by
// the destination builder, not by ID itself.
type ID string

// IDInvalidFmtError reports a StationId that fails the [A-Za-z0-9_]+ format.
type IDInvalidFmtError struct {
	Value string
}

func (e *IDInvalidFmtError) Error() string {
	return fmt.Sprintf("station id %q invalid: must match [A-Za-z0-9_]+ and be non-empty", e.Value)
}

// NewID validates value and returns it as an ID.
func NewID(value string) (ID, error) {
	if !idPattern.MatchString(value) {
		return "", &IDInvalidFmtError{Value: value}
	}
	return ID(value), nil
}

func (id ID) String() string { return string(id) }

// RtID is an opaque numeric index into a destination's DAG. It is cheap to
// copy and valid for the lifetime of the destination that produced it.
type RtID int

func (id RtID) String() string { return fmt.Sprintf("rt:%d", int(id)) }
