package profilestore_test

import (
	"context"
	"errors"
	"testing"

	memstore "github.com/avril-atelier/storefront-api/internal/adapters/memory/profilestore"
	"github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
)

func TestStore_GetUnknownSubject(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	if _, err := s.Get(context.Background(), "user_1"); !errors.Is(err, profilestore.ErrNotFound) {
		t.Fatalf("Get unknown = %v, want ErrNotFound", err)
	}
}

func TestStore_InitMaterializesDefaults(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	ctx := context.Background()

	p, err := s.Init(ctx, "user_1")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if p.Approved {
		t.Fatalf("new profile must not be approved")
	}
	if p.EmailOptIn == nil || !*p.EmailOptIn {
		t.Fatalf("first init must set opt-in true")
	}
}

func TestStore_InitDoesNotResetOptOut(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	ctx := context.Background()

	if _, err := s.Init(ctx, "user_1"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.SetEmailOptIn(ctx, "user_1", false); err != nil {
		t.Fatalf("SetEmailOptIn: %v", err)
	}

	p, err := s.Init(ctx, "user_1")
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if p.EmailOptIn == nil || *p.EmailOptIn {
		t.Fatalf("re-init must keep the explicit opt-out")
	}
}

func TestStore_SetWishlistItemAddRemove(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	ctx := context.Background()

	wl, err := s.SetWishlistItem(ctx, "user_1", "Silk Scarf", true)
	if err != nil {
		t.Fatalf("SetWishlistItem add: %v", err)
	}
	if !wl["Silk Scarf"] {
		t.Fatalf("item missing after add: %v", wl)
	}

	wl, err = s.SetWishlistItem(ctx, "user_1", "Silk Scarf", false)
	if err != nil {
		t.Fatalf("SetWishlistItem remove: %v", err)
	}
	if len(wl) != 0 {
		t.Fatalf("wishlist not empty after remove: %v", wl)
	}
}

func TestStore_GetReturnsClone(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	ctx := context.Background()

	if _, err := s.SetWishlistItem(ctx, "user_1", "Silk Scarf", true); err != nil {
		t.Fatalf("SetWishlistItem: %v", err)
	}

	p, err := s.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p.Wishlist["Wool Coat"] = true

	again, err := s.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if _, ok := again.Wishlist["Wool Coat"]; ok {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := memstore.NewStore()
	ctx := context.Background()

	if _, err := s.Init(ctx, "user_1"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "user_1"); !errors.Is(err, profilestore.ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	// Deleting an absent profile is a no-op.
	if err := s.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}
}
