package access

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/identity"
	"github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
)

// Decision is the gate's verdict for one request: let it through or send
// the browser somewhere else.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision             { return Decision{Allow: true} }
func redirect(to string) Decision { return Decision{RedirectTo: to} }

// publicPrefixes are reachable without a session and without approval.
// Redeem-code and delete-account stay public because unapproved users must
// be able to call them; they do their own session checks.
var publicPrefixes = []string{
	"/sign-in",
	"/sign-up",
	"/sign-out",
	"/api/redeem-code",
	"/api/delete-account",
	"/healthz",
	"/favicon.ico",
	"/robots.txt",
	"/static/",
}

// IsPublicPath reports whether the gate skips this path entirely.
func IsPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if path == p || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Gate decides per request whether the caller may see gated storefront
// pages. Approval comes from the profile store; a configured allowlist of
// emails bypasses the code requirement.
type Gate struct {
	profiles  profilestore.Store
	identity  identity.Client
	allowlist domain.EmailSet
	logger    zerolog.Logger
}

func NewGate(profiles profilestore.Store, identityClient identity.Client, allowlist domain.EmailSet, logger zerolog.Logger) *Gate {
	return &Gate{
		profiles:  profiles,
		identity:  identityClient,
		allowlist: allowlist,
		logger:    logger,
	}
}

// Evaluate runs the gate state machine for one request. subject is empty
// when the request carries no valid session. Any lookup failure fails
// closed: the caller is treated as signed out.
func (g *Gate) Evaluate(ctx context.Context, subject domain.SubjectID, reqURL *url.URL) Decision {
	if IsPublicPath(reqURL.Path) {
		return allow()
	}

	if subject == "" {
		return redirect("/sign-in?return_to=" + url.QueryEscape(reqURL.RequestURI()))
	}

	approved, err := g.approved(ctx, subject)
	if err != nil {
		g.logger.Error().Err(err).Str("subject", string(subject)).Msg("gate approval lookup failed")
		return redirect("/sign-in?return_to=" + url.QueryEscape(reqURL.RequestURI()))
	}

	onEnterCode := reqURL.Path == "/enter-code"
	if !approved {
		if onEnterCode {
			return allow()
		}
		return redirect("/enter-code?next=" + url.QueryEscape(reqURL.RequestURI()))
	}

	if onEnterCode {
		return redirect(safeNext(reqURL.Query().Get("next")))
	}
	return allow()
}

func (g *Gate) approved(ctx context.Context, subject domain.SubjectID) (bool, error) {
	p, err := g.profiles.Get(ctx, subject)
	switch {
	case err == nil:
		if p.Approved {
			return true, nil
		}
	case errors.Is(err, profilestore.ErrNotFound):
		// No profile yet; fall through to the allowlist.
	default:
		return false, err
	}

	if g.allowlist.Len() == 0 || g.identity == nil {
		return false, nil
	}
	email, err := g.identity.GetPrimaryEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return g.allowlist.Contains(email), nil
}

// safeNext only honors same-site relative targets, so the enter-code
// redirect cannot be pointed at another origin.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
