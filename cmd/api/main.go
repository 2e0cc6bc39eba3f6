package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avril-atelier/storefront-api/internal/adapters/httpapi"
	"github.com/avril-atelier/storefront-api/internal/adapters/identityapi"
	memidentity "github.com/avril-atelier/storefront-api/internal/adapters/memory/identity"
	memprofilestore "github.com/avril-atelier/storefront-api/internal/adapters/memory/profilestore"
	memredemptionlog "github.com/avril-atelier/storefront-api/internal/adapters/memory/redemptionlog"
	postgres "github.com/avril-atelier/storefront-api/internal/adapters/postgres"
	pgprofilestore "github.com/avril-atelier/storefront-api/internal/adapters/postgres/profilestore"
	pgredemptionlog "github.com/avril-atelier/storefront-api/internal/adapters/postgres/redemptionlog"
	"github.com/avril-atelier/storefront-api/internal/adapters/shopify"
	"github.com/avril-atelier/storefront-api/internal/app/access"
	"github.com/avril-atelier/storefront-api/internal/app/storefront"
	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/platform/auth/sessionverifier"
	platformclock "github.com/avril-atelier/storefront-api/internal/platform/clock"
	"github.com/avril-atelier/storefront-api/internal/platform/config"
	"github.com/avril-atelier/storefront-api/internal/platform/logging"
	identityport "github.com/avril-atelier/storefront-api/internal/ports/out/identity"
	profilestoreport "github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
	redemptionlogport "github.com/avril-atelier/storefront-api/internal/ports/out/redemptionlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLogger := logging.NewDefault("info")
		fallbackLogger.Fatal().Err(err).Msg("load config")
	}
	logger := logging.NewDefault(cfg.LogLevel)

	// Auth configuration:
	// - Production: verify session tokens against the identity provider's JWKS
	// - Local dev: set AUTH_MODE=dev to bypass verification and use X-Debug-Subject
	var sessionMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case "dev":
		sessionMW = httpapi.NewDevSessionMiddleware(cfg.DevSubject)
	default:
		if err := cfg.ValidateSession(); err != nil {
			logger.Fatal().Err(err).Msg("invalid session config")
		}
		sessionMW = httpapi.NewSessionMiddleware(sessionverifier.New(cfg.Session))
	}

	clk := platformclock.NewSystemClock()

	var (
		profiles    profilestoreport.Store
		redemptions redemptionlogport.Log
		cleanup     func()
	)
	switch cfg.StorageBackend {
	case "postgres":
		ctx := context.Background()
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid postgres config")
		}
		cleanup = pool.Close

		profiles = pgprofilestore.NewStore(pool)
		redemptions = pgredemptionlog.NewLog(pool)
	default:
		profiles = memprofilestore.NewStore()
		redemptions = memredemptionlog.NewLog()
	}
	if cleanup != nil {
		defer cleanup()
	}

	commerceClient, err := shopify.NewClient(cfg.Commerce)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid commerce config")
	}

	// Without a secret key the Backend API is unreachable; fall back to the
	// in-memory identity client so dev setups still run end to end.
	var identityClient identityport.Client
	if cfg.Identity.SecretKey != "" {
		identityClient, err = identityapi.NewClient(cfg.Identity)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid identity config")
		}
	} else {
		logger.Warn().Msg("IDENTITY_SECRET_KEY unset; using in-memory identity client")
		identityClient = memidentity.NewClient()
	}

	codes := domain.ParseAccessCodes(cfg.AccessCodes)
	allowlist := domain.ParseEmailSet(cfg.AllowlistEmails)
	if codes.Len() == 0 {
		logger.Warn().Msg("ACCESS_CODES is empty; no code can be redeemed")
	}

	accessSvc := access.NewService(profiles, identityClient, codes, redemptions, clk, logger)
	gate := access.NewGate(profiles, identityClient, allowlist, logger)
	storefrontSvc := storefront.NewService(commerceClient, logger)

	api := httpapi.NewServer(accessSvc, storefrontSvc, cfg.PublicOrigin)
	handler := httpapi.NewRouter(api, gate, sessionMW, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
