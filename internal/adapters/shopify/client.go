// Package shopify is a thin typed client for the Storefront GraphQL API.
// The backend owns product data, pricing, and checkout state; this client
// adds no caching and attempts every call exactly once.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avril-atelier/storefront-api/internal/platform/config"
	"github.com/avril-atelier/storefront-api/internal/ports/out/commerce"
)

type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

func NewClient(cfg config.CommerceConfig) (*Client, error) {
	if cfg.StoreDomain == "" {
		return nil, fmt.Errorf("missing commerce store domain")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("missing commerce storefront token")
	}
	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cfg.StoreDomain, "https://"), "http://"), "/")
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", domain, cfg.APIVersion),
		token:    cfg.AccessToken,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// NewClientForEndpoint targets an explicit GraphQL endpoint. Used by tests.
func NewClientForEndpoint(endpoint, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoint: endpoint, token: token, http: httpClient}
}

func (c *Client) GetProduct(ctx context.Context, handle string) (commerce.Product, error) {
	var out struct {
		Product *gqlProduct `json:"product"`
	}
	err := c.query(ctx, getProductQuery, map[string]any{"handle": handle}, &out)
	if err != nil {
		return commerce.Product{}, err
	}
	if out.Product == nil {
		return commerce.Product{}, commerce.ErrNotFound
	}
	return out.Product.toDomain(), nil
}

func (c *Client) GetProducts(ctx context.Context, first int) ([]commerce.Product, error) {
	if first <= 0 {
		first = 100
	}
	var out struct {
		Products struct {
			Edges []struct {
				Node gqlProduct `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	err := c.query(ctx, getProductsQuery, map[string]any{"first": first}, &out)
	if err != nil {
		return nil, err
	}
	products := make([]commerce.Product, 0, len(out.Products.Edges))
	for _, e := range out.Products.Edges {
		products = append(products, e.Node.toDomain())
	}
	return products, nil
}

func (c *Client) GetCart(ctx context.Context, cartID string) (commerce.Cart, error) {
	var out struct {
		Cart *gqlCart `json:"cart"`
	}
	err := c.query(ctx, getCartQuery, map[string]any{"cartId": cartID}, &out)
	if err != nil {
		return commerce.Cart{}, err
	}
	if out.Cart == nil {
		return commerce.Cart{}, commerce.ErrNotFound
	}
	return out.Cart.toDomain(), nil
}

func (c *Client) CreateCart(ctx context.Context) (commerce.Cart, error) {
	var out struct {
		CartCreate struct {
			Cart       *gqlCart       `json:"cart"`
			UserErrors []gqlUserError `json:"userErrors"`
		} `json:"cartCreate"`
	}
	err := c.query(ctx, createCartMutation, nil, &out)
	if err != nil {
		return commerce.Cart{}, err
	}
	if err := userErr(out.CartCreate.UserErrors); err != nil {
		return commerce.Cart{}, err
	}
	if out.CartCreate.Cart == nil {
		return commerce.Cart{}, fmt.Errorf("cartCreate returned no cart")
	}
	return out.CartCreate.Cart.toDomain(), nil
}

func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []commerce.LineInput) (commerce.Cart, error) {
	gqlLines := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		q := l.Quantity
		if q <= 0 {
			q = 1
		}
		gqlLines = append(gqlLines, map[string]any{"merchandiseId": l.MerchandiseID, "quantity": q})
	}
	var out struct {
		CartLinesAdd struct {
			Cart       *gqlCart       `json:"cart"`
			UserErrors []gqlUserError `json:"userErrors"`
		} `json:"cartLinesAdd"`
	}
	err := c.query(ctx, addCartLinesMutation, map[string]any{"cartId": cartID, "lines": gqlLines}, &out)
	if err != nil {
		return commerce.Cart{}, err
	}
	if err := userErr(out.CartLinesAdd.UserErrors); err != nil {
		return commerce.Cart{}, err
	}
	if out.CartLinesAdd.Cart == nil {
		return commerce.Cart{}, fmt.Errorf("cartLinesAdd returned no cart")
	}
	return out.CartLinesAdd.Cart.toDomain(), nil
}

func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []commerce.LineUpdate) (commerce.Cart, error) {
	gqlLines := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		gqlLines = append(gqlLines, map[string]any{
			"id":            l.LineID,
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}
	var out struct {
		CartLinesUpdate struct {
			Cart       *gqlCart       `json:"cart"`
			UserErrors []gqlUserError `json:"userErrors"`
		} `json:"cartLinesUpdate"`
	}
	err := c.query(ctx, updateCartLinesMutation, map[string]any{"cartId": cartID, "lines": gqlLines}, &out)
	if err != nil {
		return commerce.Cart{}, err
	}
	if err := userErr(out.CartLinesUpdate.UserErrors); err != nil {
		return commerce.Cart{}, err
	}
	if out.CartLinesUpdate.Cart == nil {
		return commerce.Cart{}, fmt.Errorf("cartLinesUpdate returned no cart")
	}
	return out.CartLinesUpdate.Cart.toDomain(), nil
}

func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (commerce.Cart, error) {
	var out struct {
		CartLinesRemove struct {
			Cart       *gqlCart       `json:"cart"`
			UserErrors []gqlUserError `json:"userErrors"`
		} `json:"cartLinesRemove"`
	}
	err := c.query(ctx, removeCartLinesMutation, map[string]any{"cartId": cartID, "lineIds": lineIDs}, &out)
	if err != nil {
		return commerce.Cart{}, err
	}
	if err := userErr(out.CartLinesRemove.UserErrors); err != nil {
		return commerce.Cart{}, err
	}
	if out.CartLinesRemove.Cart == nil {
		return commerce.Cart{}, fmt.Errorf("cartLinesRemove returned no cart")
	}
	return out.CartLinesRemove.Cart.toDomain(), nil
}

// query posts a GraphQL document and decodes `data` into out.
func (c *Client) query(ctx context.Context, doc string, vars map[string]any, out any) error {
	payload, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{Query: doc, Variables: vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storefront api: status=%d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode storefront response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("storefront api: %s", envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode storefront data: %w", err)
		}
	}
	return nil
}

type gqlUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func userErr(errs []gqlUserError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("storefront api: %s", errs[0].Message)
}
