package shopify

import "github.com/avril-atelier/storefront-api/internal/ports/out/commerce"

const productFragment = `
fragment product on Product {
  id
  handle
  title
  description
  availableForSale
  options {
    name
    values
  }
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
    maxVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        selectedOptions {
          name
          value
        }
        price {
          amount
          currencyCode
        }
      }
    }
  }
  featuredImage {
    url
    altText
    width
    height
  }
  images(first: 20) {
    edges {
      node {
        url
        altText
        width
        height
      }
    }
  }
  tags
}
`

const cartFragment = `
fragment cart on Cart {
  id
  checkoutUrl
  cost {
    totalAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            product {
              title
            }
          }
        }
      }
    }
  }
  totalQuantity
}
`

const getProductQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    ...product
  }
}
` + productFragment

const getProductsQuery = `
query getProducts($first: Int!) {
  products(first: $first, sortKey: TITLE) {
    edges {
      node {
        ...product
      }
    }
  }
}
` + productFragment

const getCartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...cart
  }
}
` + cartFragment

const createCartMutation = `
mutation createCart {
  cartCreate {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const addCartLinesMutation = `
mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const updateCartLinesMutation = `
mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const removeCartLinesMutation = `
mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

type gqlMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m gqlMoney) toDomain() commerce.Money {
	return commerce.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type gqlImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (i gqlImage) toDomain() commerce.Image {
	return commerce.Image{URL: i.URL, AltText: i.AltText, Width: i.Width, Height: i.Height}
}

type gqlProduct struct {
	ID               string `json:"id"`
	Handle           string `json:"handle"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	AvailableForSale bool   `json:"availableForSale"`
	Options          []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
	PriceRange struct {
		MinVariantPrice gqlMoney `json:"minVariantPrice"`
		MaxVariantPrice gqlMoney `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string `json:"id"`
				Title            string `json:"title"`
				AvailableForSale bool   `json:"availableForSale"`
				SelectedOptions  []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"selectedOptions"`
				Price gqlMoney `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	FeaturedImage *gqlImage `json:"featuredImage"`
	Images        struct {
		Edges []struct {
			Node gqlImage `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Tags []string `json:"tags"`
}

func (p gqlProduct) toDomain() commerce.Product {
	out := commerce.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		AvailableForSale: p.AvailableForSale,
		MinPrice:         p.PriceRange.MinVariantPrice.toDomain(),
		MaxPrice:         p.PriceRange.MaxVariantPrice.toDomain(),
		Tags:             p.Tags,
	}
	for _, o := range p.Options {
		out.Options = append(out.Options, commerce.ProductOption{Name: o.Name, Values: o.Values})
	}
	for _, e := range p.Variants.Edges {
		selected := make(map[string]string, len(e.Node.SelectedOptions))
		for _, so := range e.Node.SelectedOptions {
			selected[so.Name] = so.Value
		}
		out.Variants = append(out.Variants, commerce.ProductVariant{
			ID:               e.Node.ID,
			Title:            e.Node.Title,
			AvailableForSale: e.Node.AvailableForSale,
			SelectedOptions:  selected,
			Price:            e.Node.Price.toDomain(),
		})
	}
	if p.FeaturedImage != nil {
		img := p.FeaturedImage.toDomain()
		out.FeaturedImage = &img
	}
	for _, e := range p.Images.Edges {
		out.Images = append(out.Images, e.Node.toDomain())
	}
	return out
}

type gqlCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Cost        struct {
		TotalAmount gqlMoney `json:"totalAmount"`
	} `json:"cost"`
	Lines struct {
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
				Cost     struct {
					TotalAmount gqlMoney `json:"totalAmount"`
				} `json:"cost"`
				Merchandise struct {
					ID      string `json:"id"`
					Product struct {
						Title string `json:"title"`
					} `json:"product"`
				} `json:"merchandise"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
	TotalQuantity int `json:"totalQuantity"`
}

func (c gqlCart) toDomain() commerce.Cart {
	out := commerce.Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		TotalCost:     c.Cost.TotalAmount.toDomain(),
	}
	for _, e := range c.Lines.Edges {
		out.Lines = append(out.Lines, commerce.CartLine{
			ID:            e.Node.ID,
			MerchandiseID: e.Node.Merchandise.ID,
			ProductTitle:  e.Node.Merchandise.Product.Title,
			Quantity:      e.Node.Quantity,
			Cost:          e.Node.Cost.TotalAmount.toDomain(),
		})
	}
	return out
}
