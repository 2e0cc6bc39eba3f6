package domain_test

import (
	"testing"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

func TestParseEmailSet_CaseInsensitive(t *testing.T) {
	t.Parallel()

	set := domain.ParseEmailSet("VIP@Example.com, press@example.com")
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	for _, email := range []string{"vip@example.com", "VIP@EXAMPLE.COM", " vip@example.com "} {
		if !set.Contains(email) {
			t.Fatalf("Contains(%q) = false, want true", email)
		}
	}
	if set.Contains("stranger@example.com") {
		t.Fatalf("unlisted email must not match")
	}
	if set.Contains("") {
		t.Fatalf("empty email must never match")
	}
}

func TestParseEmailSet_DropsEmptyEntries(t *testing.T) {
	t.Parallel()

	set := domain.ParseEmailSet(", ,,")
	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", set.Len())
	}
}
