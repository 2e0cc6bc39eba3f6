// Package access owns the early-access gate and the per-user account
// operations behind it: profile init, email opt-in, wishlist, code
// redemption, and account deletion.
package access

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/clock"
	"github.com/avril-atelier/storefront-api/internal/ports/out/identity"
	"github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
	"github.com/avril-atelier/storefront-api/internal/ports/out/redemptionlog"
)

type Service struct {
	profiles    profilestore.Store
	identity    identity.Client
	codes       domain.AccessCodeSet
	redemptions redemptionlog.Log
	clock       clock.Clock
	logger      zerolog.Logger

	newEventID func() string
}

func NewService(
	profiles profilestore.Store,
	identityClient identity.Client,
	codes domain.AccessCodeSet,
	redemptions redemptionlog.Log,
	clk clock.Clock,
	logger zerolog.Logger,
) *Service {
	return &Service{
		profiles:    profiles,
		identity:    identityClient,
		codes:       codes,
		redemptions: redemptions,
		clock:       clk,
		logger:      logger,
		newEventID:  uuid.NewString,
	}
}

// SetNewEventIDForTest overrides redemption event ID generation for
// deterministic tests. It should not be used in production code.
func (s *Service) SetNewEventIDForTest(fn func() string) {
	if fn != nil {
		s.newEventID = fn
	}
}

// InitUser materializes the caller's profile with the email opt-in default.
// Calling it again is a no-op read.
func (s *Service) InitUser(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	return s.profiles.Init(ctx, subject)
}

func (s *Service) SetEmailOptIn(ctx context.Context, subject domain.SubjectID, optIn bool) error {
	return s.profiles.SetEmailOptIn(ctx, subject, optIn)
}

// GetWishlist returns the caller's wishlist. A subject with no profile row
// yet has an empty wishlist, not an error.
func (s *Service) GetWishlist(ctx context.Context, subject domain.SubjectID) (domain.Wishlist, error) {
	p, err := s.profiles.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			return domain.Wishlist{}, nil
		}
		return nil, err
	}
	return p.Wishlist, nil
}

func (s *Service) SetWishlistItem(ctx context.Context, subject domain.SubjectID, productTitle string, in bool) (domain.Wishlist, error) {
	if strings.TrimSpace(productTitle) == "" {
		return nil, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "productTitle must be a non-empty string"}
	}
	return s.profiles.SetWishlistItem(ctx, subject, productTitle, in)
}

// RedeemCode checks the submitted code against the static set and, on a
// match, marks the caller approved. Codes are shared secrets: redeeming the
// same code again, by anyone, succeeds again.
func (s *Service) RedeemCode(ctx context.Context, subject domain.SubjectID, code string) error {
	if !s.codes.Contains(code) {
		return &Error{Status: 400, Code: "INVALID_CODE", Message: "Invalid code"}
	}

	if err := s.profiles.SetApproved(ctx, subject, true); err != nil {
		return err
	}

	// The redemption log is observational only; a write failure must not
	// undo an approval that already happened.
	ev := redemptionlog.Event{
		ID:         s.newEventID(),
		Subject:    subject,
		Code:       code,
		RedeemedAt: s.clock.Now().UTC(),
	}
	if err := s.redemptions.Append(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("subject", string(subject)).Msg("redemption log append failed")
	}

	s.allowlistEmailBestEffort(ctx, subject)
	return nil
}

// allowlistEmailBestEffort submits the caller's email to the identity
// provider's sign-up allowlist so a future re-registration skips the gate.
// Failures are logged and swallowed: the redemption already succeeded.
func (s *Service) allowlistEmailBestEffort(ctx context.Context, subject domain.SubjectID) {
	if s.identity == nil {
		return
	}
	email, err := s.identity.GetPrimaryEmail(ctx, subject)
	if err != nil || email == "" {
		if err != nil {
			s.logger.Debug().Err(err).Str("subject", string(subject)).Msg("primary email lookup failed")
		}
		return
	}
	if err := s.identity.AddAllowlistIdentifier(ctx, email); err != nil {
		s.logger.Debug().Err(err).Str("subject", string(subject)).Msg("allowlist submit failed")
	}
}

// DeleteAccount removes the identity-provider user and the local profile
// row. A subject the provider no longer knows still gets its local row
// cleaned up.
func (s *Service) DeleteAccount(ctx context.Context, subject domain.SubjectID) error {
	if s.identity != nil {
		if err := s.identity.DeleteUser(ctx, subject); err != nil && !errors.Is(err, identity.ErrNotFound) {
			return err
		}
	}
	return s.profiles.Delete(ctx, subject)
}

// Redemptions returns the caller's redemption history, oldest first.
func (s *Service) Redemptions(ctx context.Context, subject domain.SubjectID) ([]redemptionlog.Event, error) {
	return s.redemptions.ListBySubject(ctx, subject)
}
