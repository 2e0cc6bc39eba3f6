package profilestore

import (
	"context"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

// Store persists per-user preference profiles.
//
// Every mutation is a single-field atomic upsert: concurrent requests from
// the same user touching different fields cannot lose each other's writes.
// A profile row is materialized implicitly by the first write for a subject.
type Store interface {
	// Get returns the stored profile. ErrNotFound when no row exists yet.
	Get(ctx context.Context, subject domain.SubjectID) (domain.Profile, error)

	// Init creates the profile if absent, applying the email_opt_in=true
	// default, and returns the effective profile. Calling Init on an
	// existing profile is a no-op read.
	Init(ctx context.Context, subject domain.SubjectID) (domain.Profile, error)

	SetApproved(ctx context.Context, subject domain.SubjectID, approved bool) error
	SetEmailOptIn(ctx context.Context, subject domain.SubjectID, optIn bool) error

	// SetWishlistItem adds (in=true) or removes (in=false) a single product
	// title and returns the updated wishlist.
	SetWishlistItem(ctx context.Context, subject domain.SubjectID, productTitle string, in bool) (domain.Wishlist, error)

	// Delete removes the profile row. Deleting an absent row is not an error.
	Delete(ctx context.Context, subject domain.SubjectID) error
}
