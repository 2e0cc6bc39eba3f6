package commerce

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("commerce resource not found")

// Money is an amount in the shop's currency, kept as the decimal string the
// backend returns. The storefront never does arithmetic on prices.
type Money struct {
	Amount       string
	CurrencyCode string
}

type Image struct {
	URL     string
	AltText string
	Width   int
	Height  int
}

type ProductOption struct {
	Name   string
	Values []string
}

type ProductVariant struct {
	ID               string
	Title            string
	AvailableForSale bool
	SelectedOptions  map[string]string
	Price            Money
}

type Product struct {
	ID               string
	Handle           string
	Title            string
	Description      string
	AvailableForSale bool
	Options          []ProductOption
	Variants         []ProductVariant
	MinPrice         Money
	MaxPrice         Money
	FeaturedImage    *Image
	Images           []Image
	Tags             []string
}

type CartLine struct {
	ID            string
	MerchandiseID string
	ProductTitle  string
	Quantity      int
	Cost          Money
}

type Cart struct {
	ID            string
	CheckoutURL   string
	Lines         []CartLine
	TotalQuantity int
	TotalCost     Money
}

type LineInput struct {
	MerchandiseID string
	Quantity      int
}

type LineUpdate struct {
	LineID        string
	MerchandiseID string
	Quantity      int
}

// Client is the typed query layer over the headless commerce backend. The
// backend owns product data, pricing, and checkout state; every call here is
// a single attempt with no local caching.
type Client interface {
	GetProduct(ctx context.Context, handle string) (Product, error)
	GetProducts(ctx context.Context, first int) ([]Product, error)

	GetCart(ctx context.Context, cartID string) (Cart, error)
	CreateCart(ctx context.Context) (Cart, error)
	AddCartLines(ctx context.Context, cartID string, lines []LineInput) (Cart, error)
	UpdateCartLines(ctx context.Context, cartID string, lines []LineUpdate) (Cart, error)
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (Cart, error)
}
