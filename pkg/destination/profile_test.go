package destination

import "testing"

func TestNewProfile_Valid(t *testing.T) {
	for _, v := range []string{"default", "prod_us_east", "a1"} {
		if _, err := NewProfile(v); err != nil {
			t.Errorf("NewProfile(%q) unexpected error: %v", v, err)
		}
	}
}

func TestNewProfile_Invalid(t *testing.T) {
	for _, v := range []string{"", "A", "a b", "Prod"} {
		if _, err := NewProfile(v); err == nil {
			t.Errorf("NewProfile(%q) expected error", v)
		}
	}
}

func TestDefaultProfile(t *testing.T) {
	if DefaultProfile().String() != "default" {
		t.Fatalf("unexpected default profile: %s", DefaultProfile())
	}
}
