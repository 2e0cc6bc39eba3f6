package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	memclock "github.com/avril-atelier/storefront-api/internal/adapters/memory/clock"
	memidentity "github.com/avril-atelier/storefront-api/internal/adapters/memory/identity"
	memprofiles "github.com/avril-atelier/storefront-api/internal/adapters/memory/profilestore"
	memredemptions "github.com/avril-atelier/storefront-api/internal/adapters/memory/redemptionlog"
	"github.com/avril-atelier/storefront-api/internal/domain"
)

func newTestService(codes string) (*Service, *memprofiles.Store, *memidentity.Client, *memredemptions.Log) {
	profiles := memprofiles.NewStore()
	idc := memidentity.NewClient()
	log := memredemptions.NewLog()
	clk := memclock.NewManualClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(profiles, idc, domain.ParseAccessCodes(codes), log, clk, zerolog.Nop())
	return svc, profiles, idc, log
}

func TestInitUserAppliesOptInDefaultOnce(t *testing.T) {
	t.Parallel()
	svc, profiles, _, _ := newTestService("")
	ctx := context.Background()

	p, err := svc.InitUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("InitUser: %v", err)
	}
	if p.EmailOptIn == nil || !*p.EmailOptIn {
		t.Fatalf("EmailOptIn = %v, want true", p.EmailOptIn)
	}

	// An explicit opt-out must survive a second init.
	if err := svc.SetEmailOptIn(ctx, "user_1", false); err != nil {
		t.Fatalf("SetEmailOptIn: %v", err)
	}
	p, err = svc.InitUser(ctx, "user_1")
	if err != nil {
		t.Fatalf("InitUser again: %v", err)
	}
	if p.EmailOptIn == nil || *p.EmailOptIn {
		t.Fatalf("EmailOptIn after re-init = %v, want false", p.EmailOptIn)
	}

	stored, err := profiles.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.EmailOptIn == nil || *stored.EmailOptIn {
		t.Fatalf("stored EmailOptIn = %v, want false", stored.EmailOptIn)
	}
}

func TestGetWishlistForUnknownSubjectIsEmpty(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService("")

	wl, err := svc.GetWishlist(context.Background(), "user_unknown")
	if err != nil {
		t.Fatalf("GetWishlist: %v", err)
	}
	if len(wl) != 0 {
		t.Fatalf("wishlist = %v, want empty", wl)
	}
}

func TestSetWishlistItemRoundTrip(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService("")
	ctx := context.Background()

	wl, err := svc.SetWishlistItem(ctx, "user_1", "Silk Scarf", true)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !wl["Silk Scarf"] {
		t.Fatalf("wishlist after add = %v", wl)
	}

	wl, err = svc.SetWishlistItem(ctx, "user_1", "Silk Scarf", false)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := wl["Silk Scarf"]; ok {
		t.Fatalf("wishlist after remove = %v", wl)
	}
}

func TestSetWishlistItemRejectsEmptyTitle(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestService("")

	_, err := svc.SetWishlistItem(context.Background(), "user_1", "   ", true)
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 400 {
		t.Fatalf("err = %v, want 400 app error", err)
	}
}

func TestRedeemCodeApprovesAndLogs(t *testing.T) {
	t.Parallel()
	svc, profiles, idc, log := newTestService("RUNWAY26,ATELIER")
	svc.SetNewEventIDForTest(func() string { return "ev-1" })
	idc.SetEmail("user_1", "vip@example.com")
	ctx := context.Background()

	if err := svc.RedeemCode(ctx, "user_1", "RUNWAY26"); err != nil {
		t.Fatalf("RedeemCode: %v", err)
	}

	p, err := profiles.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !p.Approved {
		t.Fatal("profile not approved after redemption")
	}

	events, err := log.ListBySubject(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(events) != 1 || events[0].ID != "ev-1" || events[0].Code != "RUNWAY26" {
		t.Fatalf("events = %+v", events)
	}

	if !idc.Allowlisted("vip@example.com") {
		t.Error("email was not submitted to the allowlist")
	}
}

func TestRedeemCodeRejectsUnknownCode(t *testing.T) {
	t.Parallel()
	svc, profiles, _, _ := newTestService("RUNWAY26")
	ctx := context.Background()

	err := svc.RedeemCode(ctx, "user_1", "WRONG")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 400 || appErr.Code != "INVALID_CODE" {
		t.Fatalf("err = %v, want INVALID_CODE", err)
	}

	if _, err := profiles.Get(ctx, "user_1"); err == nil {
		t.Error("profile row written for a failed redemption")
	}
}

func TestRedeemCodeIsRepeatable(t *testing.T) {
	t.Parallel()
	svc, _, _, log := newTestService("RUNWAY26")
	ctx := context.Background()

	if err := svc.RedeemCode(ctx, "user_1", "RUNWAY26"); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	if err := svc.RedeemCode(ctx, "user_2", "RUNWAY26"); err != nil {
		t.Fatalf("second redeem, other subject: %v", err)
	}
	if err := svc.RedeemCode(ctx, "user_1", "RUNWAY26"); err != nil {
		t.Fatalf("repeat redeem, same subject: %v", err)
	}

	events, err := log.ListBySubject(ctx, "user_1")
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
}

func TestDeleteAccountRemovesProviderUserAndProfile(t *testing.T) {
	t.Parallel()
	svc, profiles, idc, _ := newTestService("")
	ctx := context.Background()

	if _, err := svc.InitUser(ctx, "user_1"); err != nil {
		t.Fatalf("InitUser: %v", err)
	}
	idc.SetEmail("user_1", "vip@example.com")

	if err := svc.DeleteAccount(ctx, "user_1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if !idc.Deleted("user_1") {
		t.Error("provider user not deleted")
	}
	if _, err := profiles.Get(ctx, "user_1"); err == nil {
		t.Error("profile row survived deletion")
	}

	// A second delete is tolerated even though the provider already
	// forgot the user.
	if err := svc.DeleteAccount(ctx, "user_1"); err != nil {
		t.Fatalf("repeat DeleteAccount: %v", err)
	}
}
