package station

import "errors"

import "testing"

func TestOpStatus_IsTerminal(t *testing.T) {
	terminal := []OpStatus{WorkSuccess, WorkUnnecessary, WorkFail, CheckFail, SetupFail, ParentFail}
	nonTerminal := []OpStatus{SetupQueued, SetupSuccess, ParentPending, OpQueued, WorkInProgress}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s: expected terminal", s)
		}
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%s: expected non-terminal", s)
		}
	}
}

func TestOpStatus_Validate(t *testing.T) {
	if err := OpStatus("bogus").Validate(); err == nil {
		t.Fatalf("expected error for invalid status")
	}
	if err := WorkSuccess.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNextSetupStatus(t *testing.T) {
	cases := []struct {
		name           string
		err            error
		hasPredecessor bool
		want           OpStatus
	}{
		{"fail", errors.New("boom"), true, SetupFail},
		{"fail no predecessor", errors.New("boom"), false, SetupFail},
		{"success with predecessor", nil, true, ParentPending},
		{"success no predecessor", nil, false, OpQueued},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NextSetupStatus(c.err, c.hasPredecessor); got != c.want {
				t.Errorf("NextSetupStatus() = %s, want %s", got, c.want)
			}
		})
	}
}

func TestNextParentStatus(t *testing.T) {
	cases := []struct {
		name string
		in   []OpStatus
		want OpStatus
	}{
		{"empty", nil, OpQueued},
		{"all success", []OpStatus{WorkSuccess, WorkUnnecessary}, OpQueued},
		{"one still pending", []OpStatus{WorkSuccess, ParentPending}, ""},
		{"one failed", []OpStatus{WorkSuccess, WorkFail}, ParentFail},
		{"failed wins over pending", []OpStatus{ParentPending, CheckFail}, ParentFail},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NextParentStatus(c.in); got != c.want {
				t.Errorf("NextParentStatus(%v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestNextWorkStatus(t *testing.T) {
	cases := []struct {
		name                                       string
		checkFailed, workNotRequired, workFailed bool
		want                                       OpStatus
	}{
		{"check failed", true, false, false, CheckFail},
		{"work not required", false, true, false, WorkUnnecessary},
		{"work failed", false, false, true, WorkFail},
		{"success", false, false, false, WorkSuccess},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NextWorkStatus(c.checkFailed, c.workNotRequired, c.workFailed)
			if got != c.want {
				t.Errorf("NextWorkStatus() = %s, want %s", got, c.want)
			}
		})
	}
}
