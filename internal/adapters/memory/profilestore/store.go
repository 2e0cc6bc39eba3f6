package profilestore

import (
	"context"
	"sync"

	"github.com/avril-atelier/storefront-api/internal/domain"
	"github.com/avril-atelier/storefront-api/internal/ports/out/profilestore"
)

// Store is an in-memory implementation of profilestore.Store.
// It is safe for concurrent use; each mutation holds the write lock for the
// whole field update, giving the same per-field atomicity the Postgres
// adapter gets from single-statement upserts.
type Store struct {
	mu        sync.RWMutex
	bySubject map[domain.SubjectID]domain.Profile
}

func NewStore() *Store {
	return &Store{
		bySubject: make(map[domain.SubjectID]domain.Profile),
	}
}

func (s *Store) Get(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.bySubject[subject]
	if !ok {
		return domain.Profile{}, profilestore.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) Init(ctx context.Context, subject domain.SubjectID) (domain.Profile, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.bySubject[subject]
	if !ok {
		p = domain.Profile{Subject: subject, Wishlist: domain.Wishlist{}}
	}
	if p.EmailOptIn == nil {
		v := true
		p.EmailOptIn = &v
	}
	s.bySubject[subject] = p.Clone()
	return p.Clone(), nil
}

func (s *Store) SetApproved(ctx context.Context, subject domain.SubjectID, approved bool) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrSeed(subject)
	p.Approved = approved
	s.bySubject[subject] = p
	return nil
}

func (s *Store) SetEmailOptIn(ctx context.Context, subject domain.SubjectID, optIn bool) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrSeed(subject)
	p.EmailOptIn = &optIn
	s.bySubject[subject] = p
	return nil
}

func (s *Store) SetWishlistItem(ctx context.Context, subject domain.SubjectID, productTitle string, in bool) (domain.Wishlist, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.getOrSeed(subject)
	if in {
		p.Wishlist[productTitle] = true
	} else {
		delete(p.Wishlist, productTitle)
	}
	s.bySubject[subject] = p
	return p.Wishlist.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, subject domain.SubjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bySubject, subject)
	return nil
}

// getOrSeed returns a private clone the caller may mutate before storing.
// Callers must hold the write lock.
func (s *Store) getOrSeed(subject domain.SubjectID) domain.Profile {
	p, ok := s.bySubject[subject]
	if !ok {
		return domain.Profile{Subject: subject, Wishlist: domain.Wishlist{}}
	}
	return p.Clone()
}
