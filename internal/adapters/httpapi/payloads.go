package httpapi

import "github.com/avril-atelier/storefront-api/internal/ports/out/commerce"

type moneyPayload struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imagePayload struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type productOptionPayload struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type productVariantPayload struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	AvailableForSale bool              `json:"availableForSale"`
	SelectedOptions  map[string]string `json:"selectedOptions"`
	Price            moneyPayload      `json:"price"`
}

type productPayload struct {
	ID               string                  `json:"id"`
	Handle           string                  `json:"handle"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	AvailableForSale bool                    `json:"availableForSale"`
	Options          []productOptionPayload  `json:"options"`
	Variants         []productVariantPayload `json:"variants"`
	MinPrice         moneyPayload            `json:"minPrice"`
	MaxPrice         moneyPayload            `json:"maxPrice"`
	FeaturedImage    *imagePayload           `json:"featuredImage,omitempty"`
	Images           []imagePayload          `json:"images"`
	Tags             []string                `json:"tags"`
}

type cartLinePayload struct {
	ID            string       `json:"id"`
	MerchandiseID string       `json:"merchandiseId"`
	ProductTitle  string       `json:"productTitle"`
	Quantity      int          `json:"quantity"`
	Cost          moneyPayload `json:"cost"`
}

type cartPayload struct {
	ID            string            `json:"id"`
	CheckoutURL   string            `json:"checkoutUrl"`
	Lines         []cartLinePayload `json:"lines"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalCost     moneyPayload      `json:"totalCost"`
}

func moneyFromDomain(m commerce.Money) moneyPayload {
	return moneyPayload{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func imageFromDomain(i commerce.Image) imagePayload {
	return imagePayload{URL: i.URL, AltText: i.AltText, Width: i.Width, Height: i.Height}
}

func productFromDomain(p commerce.Product) productPayload {
	out := productPayload{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		AvailableForSale: p.AvailableForSale,
		Options:          make([]productOptionPayload, 0, len(p.Options)),
		Variants:         make([]productVariantPayload, 0, len(p.Variants)),
		MinPrice:         moneyFromDomain(p.MinPrice),
		MaxPrice:         moneyFromDomain(p.MaxPrice),
		Images:           make([]imagePayload, 0, len(p.Images)),
		Tags:             p.Tags,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, o := range p.Options {
		out.Options = append(out.Options, productOptionPayload{Name: o.Name, Values: o.Values})
	}
	for _, v := range p.Variants {
		selected := v.SelectedOptions
		if selected == nil {
			selected = map[string]string{}
		}
		out.Variants = append(out.Variants, productVariantPayload{
			ID:               v.ID,
			Title:            v.Title,
			AvailableForSale: v.AvailableForSale,
			SelectedOptions:  selected,
			Price:            moneyFromDomain(v.Price),
		})
	}
	if p.FeaturedImage != nil {
		img := imageFromDomain(*p.FeaturedImage)
		out.FeaturedImage = &img
	}
	for _, i := range p.Images {
		out.Images = append(out.Images, imageFromDomain(i))
	}
	return out
}

func cartFromDomain(c commerce.Cart) cartPayload {
	out := cartPayload{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		Lines:         make([]cartLinePayload, 0, len(c.Lines)),
		TotalQuantity: c.TotalQuantity,
		TotalCost:     moneyFromDomain(c.TotalCost),
	}
	for _, l := range c.Lines {
		out.Lines = append(out.Lines, cartLinePayload{
			ID:            l.ID,
			MerchandiseID: l.MerchandiseID,
			ProductTitle:  l.ProductTitle,
			Quantity:      l.Quantity,
			Cost:          moneyFromDomain(l.Cost),
		})
	}
	return out
}
