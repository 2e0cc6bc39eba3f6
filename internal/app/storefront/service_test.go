package storefront

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/avril-atelier/storefront-api/internal/ports/out/commerce"
)

// fakeCommerce is a scriptable in-memory commerce.Client.
type fakeCommerce struct {
	carts      map[string]*commerce.Cart
	products   map[string]commerce.Product
	nextCartID int
	nextLineID int

	createCalls int
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{
		carts:    make(map[string]*commerce.Cart),
		products: make(map[string]commerce.Product),
	}
}

func (f *fakeCommerce) GetProduct(_ context.Context, handle string) (commerce.Product, error) {
	p, ok := f.products[handle]
	if !ok {
		return commerce.Product{}, commerce.ErrNotFound
	}
	return p, nil
}

func (f *fakeCommerce) GetProducts(_ context.Context, _ int) ([]commerce.Product, error) {
	out := make([]commerce.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCommerce) GetCart(_ context.Context, cartID string) (commerce.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return commerce.Cart{}, commerce.ErrNotFound
	}
	return *c, nil
}

func (f *fakeCommerce) CreateCart(_ context.Context) (commerce.Cart, error) {
	f.createCalls++
	f.nextCartID++
	id := fmt.Sprintf("cart-%d", f.nextCartID)
	c := &commerce.Cart{ID: id, CheckoutURL: "https://shop.example/checkout/" + id}
	f.carts[id] = c
	return *c, nil
}

func (f *fakeCommerce) AddCartLines(_ context.Context, cartID string, lines []commerce.LineInput) (commerce.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return commerce.Cart{}, commerce.ErrNotFound
	}
	for _, in := range lines {
		f.nextLineID++
		c.Lines = append(c.Lines, commerce.CartLine{
			ID:            fmt.Sprintf("line-%d", f.nextLineID),
			MerchandiseID: in.MerchandiseID,
			Quantity:      in.Quantity,
		})
		c.TotalQuantity += in.Quantity
	}
	return *c, nil
}

func (f *fakeCommerce) UpdateCartLines(_ context.Context, cartID string, lines []commerce.LineUpdate) (commerce.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return commerce.Cart{}, commerce.ErrNotFound
	}
	for _, up := range lines {
		for i := range c.Lines {
			if c.Lines[i].ID == up.LineID {
				c.TotalQuantity += up.Quantity - c.Lines[i].Quantity
				c.Lines[i].Quantity = up.Quantity
			}
		}
	}
	return *c, nil
}

func (f *fakeCommerce) RemoveCartLines(_ context.Context, cartID string, lineIDs []string) (commerce.Cart, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return commerce.Cart{}, commerce.ErrNotFound
	}
	keep := c.Lines[:0]
	for _, l := range c.Lines {
		removed := false
		for _, id := range lineIDs {
			if l.ID == id {
				removed = true
			}
		}
		if removed {
			c.TotalQuantity -= l.Quantity
			continue
		}
		keep = append(keep, l)
	}
	c.Lines = keep
	return *c, nil
}

func newTestService() (*Service, *fakeCommerce) {
	fc := newFakeCommerce()
	return NewService(fc, zerolog.Nop()), fc
}

func TestProductUnknownHandleIs404(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Product(context.Background(), "gone")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Fatalf("err = %v, want 404 app error", err)
	}
}

func TestCartWithoutCookieIsEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	cart, err := svc.Cart(context.Background(), "")
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if cart.ID != "" || len(cart.Lines) != 0 {
		t.Errorf("cart = %+v, want empty", cart)
	}
}

func TestAddToCartCreatesCartWhenMissingCookie(t *testing.T) {
	t.Parallel()
	svc, fc := newTestService()

	cart, err := svc.AddToCart(context.Background(), "", "variant-1", 2)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if cart.ID == "" {
		t.Fatal("no cart id returned")
	}
	if fc.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", fc.createCalls)
	}
	if cart.TotalQuantity != 2 {
		t.Errorf("TotalQuantity = %d, want 2", cart.TotalQuantity)
	}
}

func TestAddToCartRetriesOnceWithFreshCart(t *testing.T) {
	t.Parallel()
	svc, fc := newTestService()

	cart, err := svc.AddToCart(context.Background(), "cart-expired", "variant-1", 1)
	if err != nil {
		t.Fatalf("AddToCart with stale cookie: %v", err)
	}
	if cart.ID == "cart-expired" || cart.ID == "" {
		t.Fatalf("cart.ID = %q, want a fresh cart", cart.ID)
	}
	if fc.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", fc.createCalls)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].MerchandiseID != "variant-1" {
		t.Errorf("lines = %+v", cart.Lines)
	}
}

func TestUpdateLineZeroQuantityRemoves(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	cart, err := svc.AddToCart(ctx, "", "variant-1", 3)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	cart, err = svc.UpdateLine(ctx, cart.ID, "variant-1", 0)
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if len(cart.Lines) != 0 || cart.TotalQuantity != 0 {
		t.Errorf("cart after zero-quantity update = %+v", cart)
	}
}

func TestUpdateLineChangesQuantity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	cart, err := svc.AddToCart(ctx, "", "variant-1", 1)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	cart, err = svc.UpdateLine(ctx, cart.ID, "variant-1", 4)
	if err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}
	if cart.TotalQuantity != 4 {
		t.Errorf("TotalQuantity = %d, want 4", cart.TotalQuantity)
	}
}

func TestRemoveLineUnknownVariant(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	cart, err := svc.AddToCart(ctx, "", "variant-1", 1)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	_, err = svc.RemoveLine(ctx, cart.ID, "variant-other")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != "LINE_NOT_FOUND" {
		t.Fatalf("err = %v, want LINE_NOT_FOUND", err)
	}
}

func TestCheckoutURL(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	cart, err := svc.AddToCart(ctx, "", "variant-1", 1)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	u, err := svc.CheckoutURL(ctx, cart.ID)
	if err != nil {
		t.Fatalf("CheckoutURL: %v", err)
	}
	if u != "https://shop.example/checkout/"+cart.ID {
		t.Errorf("url = %q", u)
	}

	if _, err := svc.CheckoutURL(ctx, ""); err == nil {
		t.Error("checkout without a cart succeeded")
	}
}
