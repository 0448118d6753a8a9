package station

import "testing"

func TestNewID_Valid(t *testing.T) {
	cases := []string{"a", "A", "app_server_1", "A1_b2"}
	for _, c := range cases {
		if _, err := NewID(c); err != nil {
			t.Errorf("NewID(%q) unexpected error: %v", c, err)
		}
	}
}

func TestNewID_Invalid(t *testing.T) {
	cases := []string{"", "a b", "a.b", "a-b", "héllo"}
	for _, c := range cases {
		if _, err := NewID(c); err == nil {
			t.Errorf("NewID(%q) expected error, got nil", c)
		} else if _, ok := err.(*IDInvalidFmtError); !ok {
			t.Errorf("NewID(%q) expected *IDInvalidFmtError, got %T", c, err)
		}
	}
}

func TestRtID_String(t *testing.T) {
	if got := RtID(3).String(); got != "rt:3" {
		t.Errorf("RtID(3).String() = %q, want %q", got, "rt:3")
	}
}
