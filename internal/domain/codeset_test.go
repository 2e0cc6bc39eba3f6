package domain_test

import (
	"testing"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

func TestParseAccessCodes_TrimsAndDropsEmpties(t *testing.T) {
	t.Parallel()

	set := domain.ParseAccessCodes(" ATELIER-2026 , ,,  FRIENDS ,")
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if !set.Contains("ATELIER-2026") {
		t.Fatalf("expected trimmed code to be present")
	}
	if !set.Contains("FRIENDS") {
		t.Fatalf("expected second code to be present")
	}
	if set.Contains("") {
		t.Fatalf("empty string must never match")
	}
}

func TestParseAccessCodes_CaseSensitive(t *testing.T) {
	t.Parallel()

	set := domain.ParseAccessCodes("Velvet")
	if !set.Contains("Velvet") {
		t.Fatalf("exact match expected")
	}
	if set.Contains("velvet") || set.Contains("VELVET") {
		t.Fatalf("matching must be case-sensitive")
	}
}

func TestParseAccessCodes_EmptyInput(t *testing.T) {
	t.Parallel()

	set := domain.ParseAccessCodes("")
	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", set.Len())
	}
	if set.Contains("anything") {
		t.Fatalf("empty set must not match")
	}
}
