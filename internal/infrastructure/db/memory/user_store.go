// Package memory provides in-process stores with the same semantics as the
// database adapters. State is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// UserStore is a mutex-guarded CredentialStore with a unique email index.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.UserRecord
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.UserRecord),
		byEmail: make(map[string]string),
	}
}

func cloneRecord(r *domain.UserRecord) *domain.UserRecord {
	return &domain.UserRecord{User: *r.User.Clone(), PasswordHash: r.PasswordHash}
}

func (s *UserStore) Insert(_ context.Context, rec *domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[rec.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	s.byID[rec.ID] = cloneRecord(rec)
	s.byEmail[rec.Email] = rec.ID
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string, activeOnly bool) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	rec := s.byID[id]
	if activeOnly && !rec.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return cloneRecord(rec), nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneRecord(rec), nil
}

func (s *UserStore) List(_ context.Context) ([]*domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.UserRecord, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, cloneRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *UserStore) Update(_ context.Context, id string, update domain.ProfileUpdate, updatedAt time.Time) (*domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	update.Apply(&rec.User)
	rec.UpdatedAt = updatedAt
	return cloneRecord(rec), nil
}

func (s *UserStore) SetPasswordHash(_ context.Context, id, hash string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.PasswordHash = hash
	rec.UpdatedAt = updatedAt
	return nil
}
