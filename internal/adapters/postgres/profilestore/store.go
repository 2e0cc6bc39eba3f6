package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
)

// Store is a Postgres implementation of profilestore.Store.
//
// Every mutation is a single upsert statement, so concurrent writes to
// different fields of the same row cannot lose each other's updates.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	if s.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	row := s.pool.QueryRow(ctx, `
		SELECT approved, email_opt_in, wishlist
		FROM profiles
		WHERE subject = $1
	`, string(subject))
	return scanProfile(subject, row)
}

func (s *Store) Init(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	if s.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (subject, email_opt_in)
		VALUES ($1, true)
		ON CONFLICT (subject) DO UPDATE
		SET email_opt_in = COALESCE(profiles.email_opt_in, true),
		    updated_at = now()
		RETURNING approved, email_opt_in, wishlist
	`, string(subject))
	return scanProfile(subject, row)
}

func (s *Store) SetApproved(ctx context.Context, subject domain.SubjectID, approved bool) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (subject, approved)
		VALUES ($1, $2)
		ON CONFLICT (subject) DO UPDATE
		SET approved = EXCLUDED.approved,
		    updated_at = now()
	`, string(subject), approved)
	return err
}

func (s *Store) SetEmailOptIn(ctx context.Context, subject domain.SubjectID, optIn bool) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (subject, email_opt_in)
		VALUES ($1, $2)
		ON CONFLICT (subject) DO UPDATE
		SET email_opt_in = EXCLUDED.email_opt_in,
		    updated_at = now()
	`, string(subject), optIn)
	return err
}

func (s *Store) SetWishlistItem(ctx context.Context, subject domain.SubjectID, productTitle string, in bool) (domain.Wishlist, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	// Key add/remove happens inside the statement; no read-modify-write.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (subject, wishlist)
		VALUES ($1, CASE WHEN $3 THEN jsonb_build_object($2::text, true) ELSE '{}'::jsonb END)
		ON CONFLICT (subject) DO UPDATE
		SET wishlist = CASE
		        WHEN $3 THEN profiles.wishlist || jsonb_build_object($2::text, true)
		        ELSE profiles.wishlist - $2::text
		    END,
		    updated_at = now()
		RETURNING wishlist
	`, string(subject), productTitle, in)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	return decodeWishlist(raw)
}

func (s *Store) Delete(ctx context.Context, subject domain.SubjectID) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE subject = $1`, string(subject))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(subject domain.SubjectID, row rowScanner) (domain.Profile, error) {
	var (
		approved   bool
		emailOptIn *bool
		rawList    []byte
	)
	if err := row.Scan(&approved, &emailOptIn, &rawList); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, profilestore.ErrNotFound
		}
		return domain.Profile{}, err
	}
	wl, err := decodeWishlist(rawList)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{
		Subject:    subject,
		Approved:   approved,
		EmailOptIn: emailOptIn,
		Wishlist:   wl,
	}, nil
}

func decodeWishlist(raw []byte) (domain.Wishlist, error) {
	if len(raw) == 0 {
		return domain.Wishlist{}, nil
	}
	var wl domain.Wishlist
	if err := json.Unmarshal(raw, &wl); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	if wl == nil {
		wl = domain.Wishlist{}
	}
	return wl, nil
}
