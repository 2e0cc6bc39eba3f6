package sessionverifier_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/avril-atelier/storefront-api/internal/platform/auth/jwks_testutil"
	"github.com/avril-atelier/storefront-api/internal/platform/auth/sessionverifier"
	"github.com/avril-atelier/storefront-api/internal/platform/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig(jwksURL string) config.SessionConfig {
	return config.SessionConfig{
		Issuer:                 "https://sessions.example",
		AuthorizedParty:        "https://shop.example",
		JWKSURL:                jwksURL,
		ClockSkew:              0,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	token, err := jwks_testutil.MintSessionToken(kp, cfg.Issuer, cfg.AuthorizedParty, "user_123", clk.Now(), 5*time.Minute, nil)
	if err != nil {
		t.Fatalf("MintSessionToken: %v", err)
	}

	sub, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user_123" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	token, _ := jwks_testutil.MintSessionToken(kp, cfg.Issuer, cfg.AuthorizedParty, "user_123", clk.Now(), -1*time.Minute, nil)
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifier_Verify_WrongIssuerOrAuthorizedParty(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	wrongIss, _ := jwks_testutil.MintSessionToken(kp, "https://elsewhere.example", cfg.AuthorizedParty, "user_123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongIss); err == nil {
		t.Fatalf("expected error for wrong iss")
	}

	wrongAzp, _ := jwks_testutil.MintSessionToken(kp, cfg.Issuer, "https://evil.example", "user_123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongAzp); err == nil {
		t.Fatalf("expected error for wrong azp")
	}

	noAzp, _ := jwks_testutil.MintSessionToken(kp, cfg.Issuer, "", "user_123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), noAzp); err == nil {
		t.Fatalf("expected error for missing azp")
	}
}

func TestVerifier_Verify_AzpOptionalWhenUnconfigured(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	cfg.AuthorizedParty = ""
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	token, _ := jwks_testutil.MintSessionToken(kp, cfg.Issuer, "", "user_123", clk.Now(), 5*time.Minute, nil)
	sub, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user_123" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}

func TestVerifier_Verify_BadSignature(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	// Mint a token with a different private key than what's in JWKS.
	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	otherKP := jwks_testutil.Keypair{Kid: "kid-1", Private: other}
	token, _ := jwks_testutil.MintSessionToken(otherKP, cfg.Issuer, cfg.AuthorizedParty, "user_123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifier_Verify_JWKSRotation_OldKidRejected_NewKidAccepted(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	k1, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	k2, _ := jwks_testutil.GenerateRSAKeypair("kid-2")
	setKeys([]jwks_testutil.Keypair{k1})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL)
	cfg.JWKSRefreshInterval = 1 * time.Second
	v := sessionverifier.NewWithOptions(cfg, nil, clk)

	t1, _ := jwks_testutil.MintSessionToken(k1, cfg.Issuer, cfg.AuthorizedParty, "user_123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), t1); err != nil {
		t.Fatalf("expected first token to verify: %v", err)
	}

	// Rotate: JWKS now only contains kid-2.
	setKeys([]jwks_testutil.Keypair{k2})
	clk.Advance(2 * time.Second) // force interval refresh on next Verify call.

	if _, err := v.Verify(context.Background(), t1); err == nil {
		t.Fatalf("expected first token to be rejected after rotation")
	}

	t2, _ := jwks_testutil.MintSessionToken(k2, cfg.Issuer, cfg.AuthorizedParty, "user_456", clk.Now(), 5*time.Minute, nil)
	sub, err := v.Verify(context.Background(), t2)
	if err != nil {
		t.Fatalf("expected second token to verify: %v", err)
	}
	if sub != "user_456" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}
