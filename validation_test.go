package muhasabah

import (
	"errors"
	"testing"
)

func TestWhatsAppPattern(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+2348012345678", true},
		{"+234801234567", false},   // 9 digits
		{"+23480123456789", false}, // 11 digits
		{"2348012345678", false},
		{"+2358012345678", false},
		{"+234801234567a", false},
	}

	for _, tc := range tests {
		_, msg := validateWhatsApp(tc.in, false)
		if got := msg == ""; got != tc.want {
			t.Errorf("validateWhatsApp(%q) ok=%v want %v (%s)", tc.in, got, tc.want, msg)
		}
	}

	if _, msg := validateWhatsApp("", true); msg != "" {
		t.Fatalf("expected empty number to be accepted when optional, got %q", msg)
	}
	if _, msg := validateWhatsApp("", false); msg != msgRequired {
		t.Fatalf("expected required message, got %q", msg)
	}
}

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"sitting-member":        RoleSittingMember,
		"sitting-head":          RoleSittingHead,
		"regional-sitting-head": RoleRegionalSittingHead,
		"sitting-regional-head": RoleRegionalSittingHead,
	}
	for in, want := range tests {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestLocations(t *testing.T) {
	if len(Locations) != 37 {
		t.Fatalf("expected 36 states plus FCT, got %d", len(Locations))
	}
	if !IsLocation("FCT") || !IsLocation("Akwa Ibom") {
		t.Fatal("expected known locations to be accepted")
	}
	if IsLocation(LocationUnknown) {
		t.Fatal("Unknown is a default, not a selectable location")
	}
}

func TestValidateEmail(t *testing.T) {
	good := []string{"a@b.co", "first.last@example.org", "Name+tag@Example.COM"}
	for _, in := range good {
		if _, msg := validateEmail(in); msg != "" {
			t.Errorf("validateEmail(%q) rejected: %s", in, msg)
		}
	}
	bad := []string{"plain", "a@b", "Alice <a@b.co>", "@example.com"}
	for _, in := range bad {
		if _, msg := validateEmail(in); msg == "" {
			t.Errorf("validateEmail(%q) accepted", in)
		}
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := FieldErrors{"email": {msgInvalidEmail}}.Err()
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation match")
	}
	if errors.Is(err, ErrAccountExists) {
		t.Fatal("plain validation error must not match ErrAccountExists")
	}

	dup := &ValidationError{Fields: FieldErrors{"email": {msgEmailTaken}}, Cause: ErrAccountExists}
	if !errors.Is(dup, ErrAccountExists) || !errors.Is(dup, ErrValidation) {
		t.Fatal("expected duplicate error to match both sentinels")
	}

	if (FieldErrors{}).Err() != nil {
		t.Fatal("expected nil error for empty FieldErrors")
	}
}
