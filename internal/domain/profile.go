package domain

// SubjectID is the identity provider's opaque user identifier (JWT `sub`).
type SubjectID string

// Wishlist maps product title -> membership. Presence of a key means the
// product is wishlisted; absent keys are not wishlisted. Values are always
// true, matching the shape the storefront UI reads.
type Wishlist map[string]bool

// Clone returns an independent copy so callers cannot mutate stored state.
func (w Wishlist) Clone() Wishlist {
	if w == nil {
		return Wishlist{}
	}
	out := make(Wishlist, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Profile is the per-user preference record this service owns.
//
// EmailOptIn is a pointer because "never initialized" and "opted out" are
// different states: the first init-user call materializes the default (true).
type Profile struct {
	Subject    SubjectID
	Approved   bool
	EmailOptIn *bool
	Wishlist   Wishlist
}

// EffectiveEmailOptIn applies the first-init default.
func (p Profile) EffectiveEmailOptIn() bool {
	if p.EmailOptIn == nil {
		return true
	}
	return *p.EmailOptIn
}

func (p Profile) Clone() Profile {
	out := p
	if p.EmailOptIn != nil {
		v := *p.EmailOptIn
		out.EmailOptIn = &v
	}
	out.Wishlist = p.Wishlist.Clone()
	return out
}
