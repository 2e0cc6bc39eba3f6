// Package storefront assembles page data and drives the cart flow against
// the commerce backend. The backend owns all cart and product state; this
// layer only decides when to create a cart and which line a variant maps to.
package storefront

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/avril-atelier/storefront-api/internal/ports/out/commerce"
)

const homeProductCount = 100

type Service struct {
	commerce commerce.Client
	logger   zerolog.Logger
}

func NewService(commerceClient commerce.Client, logger zerolog.Logger) *Service {
	return &Service{commerce: commerceClient, logger: logger}
}

// HomeProducts returns the product list the home page renders.
func (s *Service) HomeProducts(ctx context.Context) ([]commerce.Product, error) {
	return s.commerce.GetProducts(ctx, homeProductCount)
}

// Product returns one product by handle. Unknown handles map to a 404.
func (s *Service) Product(ctx context.Context, handle string) (commerce.Product, error) {
	if handle == "" {
		return commerce.Product{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing product handle"}
	}
	p, err := s.commerce.GetProduct(ctx, handle)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Product{}, &Error{Status: 404, Code: "PRODUCT_NOT_FOUND", Message: "product not found"}
		}
		return commerce.Product{}, err
	}
	return p, nil
}

// Cart returns the cart for the caller's cart cookie. No cookie, or a cart
// the backend has expired, both read as an empty cart.
func (s *Service) Cart(ctx context.Context, cartID string) (commerce.Cart, error) {
	if cartID == "" {
		return commerce.Cart{}, nil
	}
	cart, err := s.commerce.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Cart{}, nil
		}
		return commerce.Cart{}, err
	}
	return cart, nil
}

// AddToCart adds one variant to the cart, creating a cart when the caller
// has none. A stale cart id gets one retry against a fresh cart. The caller
// persists the returned cart's ID back into the cookie.
func (s *Service) AddToCart(ctx context.Context, cartID, merchandiseID string, quantity int) (commerce.Cart, error) {
	if merchandiseID == "" {
		return commerce.Cart{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing merchandiseId"}
	}
	if quantity <= 0 {
		quantity = 1
	}
	lines := []commerce.LineInput{{MerchandiseID: merchandiseID, Quantity: quantity}}

	if cartID == "" {
		created, err := s.commerce.CreateCart(ctx)
		if err != nil {
			return commerce.Cart{}, err
		}
		return s.commerce.AddCartLines(ctx, created.ID, lines)
	}

	cart, err := s.commerce.AddCartLines(ctx, cartID, lines)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, commerce.ErrNotFound) {
		return commerce.Cart{}, err
	}

	// Stale cookie: the backend expired the cart. Start over once.
	s.logger.Debug().Str("cart_id", cartID).Msg("cart missing, creating a fresh one")
	created, err := s.commerce.CreateCart(ctx)
	if err != nil {
		return commerce.Cart{}, err
	}
	return s.commerce.AddCartLines(ctx, created.ID, lines)
}

// UpdateLine sets the quantity for the cart line holding a variant.
// Quantity zero removes the line.
func (s *Service) UpdateLine(ctx context.Context, cartID, merchandiseID string, quantity int) (commerce.Cart, error) {
	cart, line, err := s.resolveLine(ctx, cartID, merchandiseID)
	if err != nil {
		return commerce.Cart{}, err
	}
	if quantity <= 0 {
		return s.commerce.RemoveCartLines(ctx, cart.ID, []string{line.ID})
	}
	return s.commerce.UpdateCartLines(ctx, cart.ID, []commerce.LineUpdate{{
		LineID:        line.ID,
		MerchandiseID: merchandiseID,
		Quantity:      quantity,
	}})
}

// RemoveLine removes the cart line holding a variant.
func (s *Service) RemoveLine(ctx context.Context, cartID, merchandiseID string) (commerce.Cart, error) {
	cart, line, err := s.resolveLine(ctx, cartID, merchandiseID)
	if err != nil {
		return commerce.Cart{}, err
	}
	return s.commerce.RemoveCartLines(ctx, cart.ID, []string{line.ID})
}

// CheckoutURL hands the caller off to the backend's hosted checkout.
func (s *Service) CheckoutURL(ctx context.Context, cartID string) (string, error) {
	if cartID == "" {
		return "", &Error{Status: 400, Code: "MISSING_CART", Message: "no cart to check out"}
	}
	cart, err := s.commerce.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return "", &Error{Status: 400, Code: "MISSING_CART", Message: "no cart to check out"}
		}
		return "", err
	}
	return cart.CheckoutURL, nil
}

func (s *Service) resolveLine(ctx context.Context, cartID, merchandiseID string) (commerce.Cart, commerce.CartLine, error) {
	if cartID == "" {
		return commerce.Cart{}, commerce.CartLine{}, &Error{Status: 400, Code: "MISSING_CART", Message: "no cart"}
	}
	if merchandiseID == "" {
		return commerce.Cart{}, commerce.CartLine{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing merchandiseId"}
	}
	cart, err := s.commerce.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return commerce.Cart{}, commerce.CartLine{}, &Error{Status: 400, Code: "MISSING_CART", Message: "no cart"}
		}
		return commerce.Cart{}, commerce.CartLine{}, err
	}
	for _, l := range cart.Lines {
		if l.MerchandiseID == merchandiseID {
			return cart, l, nil
		}
	}
	return commerce.Cart{}, commerce.CartLine{}, &Error{Status: 400, Code: "LINE_NOT_FOUND", Message: "item is not in the cart"}
}
