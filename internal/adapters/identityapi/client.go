// Package identityapi talks to the identity provider's Backend API with the
// server-side secret key. Session verification is handled elsewhere; this
// adapter covers user admin and the sign-up allowlist.
package identityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/platform/config"
	"github.com/avril-atelier/storefront-api/internal/ports/out/identity"
)

type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewClient(cfg config.IdentityConfig) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing identity secret key")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.APIURL, "/"),
		secret:  cfg.SecretKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// NewClientForBaseURL targets an explicit API base URL. Used by tests.
func NewClientForBaseURL(baseURL, secret string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), secret: secret, http: httpClient}
}

type userResponse struct {
	ID                    string `json:"id"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (c *Client) GetPrimaryEmail(ctx context.Context, subject domain.SubjectID) (string, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(string(subject)), nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", identity.ErrNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("identity api: get user: status=%d", status)
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decode user: %w", err)
	}
	for _, addr := range user.EmailAddresses {
		if addr.ID == user.PrimaryEmailAddressID {
			return addr.EmailAddress, nil
		}
	}
	if len(user.EmailAddresses) > 0 {
		return user.EmailAddresses[0].EmailAddress, nil
	}
	return "", nil
}

func (c *Client) DeleteUser(ctx context.Context, subject domain.SubjectID) error {
	_, status, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(string(subject)), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return identity.ErrNotFound
	}
	if status != http.StatusOK {
		return fmt.Errorf("identity api: delete user: status=%d", status)
	}
	return nil
}

func (c *Client) AddAllowlistIdentifier(ctx context.Context, email string) error {
	payload := map[string]any{
		"identifier": email,
		"notify":     false,
	}
	_, status, err := c.do(ctx, http.MethodPost, "/allowlist_identifiers", payload)
	if err != nil {
		return err
	}
	// 422 means the identifier is already on the allowlist.
	if status == http.StatusUnprocessableEntity {
		return nil
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("identity api: add allowlist identifier: status=%d", status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return raw, resp.StatusCode, nil
}
