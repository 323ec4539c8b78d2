package password

import (
	"strings"
	"testing"
)

func TestUnusableNeverVerifies(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	sentinel, err := Unusable()
	if err != nil {
		t.Fatalf("Unusable error: %v", err)
	}
	if !strings.HasPrefix(sentinel, UnusablePrefix) || len(sentinel) <= len(UnusablePrefix) {
		t.Fatalf("unexpected sentinel %q", sentinel)
	}

	for _, candidate := range []string{"", "password", sentinel, strings.TrimPrefix(sentinel, UnusablePrefix)} {
		ok, err := hasher.Verify(candidate, sentinel)
		if err != nil {
			t.Fatalf("Verify(%q) error: %v", candidate, err)
		}
		if ok {
			t.Fatalf("unusable sentinel verified for %q", candidate)
		}
	}
}

func TestUnusableSentinelsAreDistinct(t *testing.T) {
	a, err := Unusable()
	if err != nil {
		t.Fatalf("Unusable error: %v", err)
	}
	b, err := Unusable()
	if err != nil {
		t.Fatalf("Unusable error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct sentinels")
	}
}

func TestIsUsable(t *testing.T) {
	if IsUsable("") {
		t.Fatal("empty hash must be unusable")
	}
	if IsUsable("!abc") {
		t.Fatal("sentinel must be unusable")
	}
	if !IsUsable("$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA") {
		t.Fatal("PHC hash must be usable")
	}
}

func TestNeedsUpgradeIgnoresUnusable(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	upgrade, err := hasher.NeedsUpgrade("!sentinel")
	if err != nil || upgrade {
		t.Fatalf("expected no upgrade for unusable hash, got %v %v", upgrade, err)
	}
}
