package httpapi

import (
	"github.com/avril-atelier/storefront-api/internal/app/access"
	"github.com/avril-atelier/storefront-api/internal/app/storefront"
)

// Server is the HTTP adapter: it decodes requests, applies the per-route
// session/origin contract, and delegates to the app services.
type Server struct {
	Access     *access.Service
	Storefront *storefront.Service

	// PublicOrigin is the site's own origin for the CSRF check. Empty
	// disables the check (local dev).
	PublicOrigin string
}

func NewServer(accessSvc *access.Service, storefrontSvc *storefront.Service, publicOrigin string) *Server {
	return &Server{
		Access:       accessSvc,
		Storefront:   storefrontSvc,
		PublicOrigin: publicOrigin,
	}
}
