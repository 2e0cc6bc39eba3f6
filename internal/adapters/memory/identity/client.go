package identity

import (
	"context"
	"sync"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/identity"
)

// Client is an in-memory identity.Client used for tests and local dev.
type Client struct {
	mu        sync.Mutex
	emails    map[domain.SubjectID]string
	deleted   map[domain.SubjectID]bool
	allowlist map[string]bool
}

func NewClient() *Client {
	return &Client{
		emails:    make(map[domain.SubjectID]string),
		deleted:   make(map[domain.SubjectID]bool),
		allowlist: make(map[string]bool),
	}
}

// SetEmail seeds a user's primary email.
func (c *Client) SetEmail(subject domain.SubjectID, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails[subject] = email
}

func (c *Client) GetPrimaryEmail(ctx context.Context, subject domain.SubjectID) (string, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleted[subject] {
		return "", identity.ErrNotFound
	}
	return c.emails[subject], nil
}

func (c *Client) DeleteUser(ctx context.Context, subject domain.SubjectID) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleted[subject] {
		return identity.ErrNotFound
	}
	c.deleted[subject] = true
	delete(c.emails, subject)
	return nil
}

func (c *Client) AddAllowlistIdentifier(ctx context.Context, email string) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allowlist[email] = true
	return nil
}

// Deleted reports whether DeleteUser was called for the subject.
func (c *Client) Deleted(subject domain.SubjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleted[subject]
}

// Allowlisted reports whether the email was submitted to the allowlist.
func (c *Client) Allowlisted(email string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allowlist[email]
}
