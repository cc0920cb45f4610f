package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// FAQStore keeps FAQs in memory.
type FAQStore struct {
	mu   sync.RWMutex
	faqs map[string]domain.FAQ
}

func NewFAQStore() *FAQStore {
	return &FAQStore{faqs: make(map[string]domain.FAQ)}
}

func (s *FAQStore) List(_ context.Context) ([]*domain.FAQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.FAQ, 0, len(s.faqs))
	for _, f := range s.faqs {
		f := f
		out = append(out, &f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *FAQStore) Create(_ context.Context, faq *domain.FAQ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faqs[faq.ID] = *faq
	return nil
}

func (s *FAQStore) Update(_ context.Context, faq *domain.FAQ) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.faqs[faq.ID]
	if !ok {
		return domain.ErrFAQNotFound
	}
	cur.Question = faq.Question
	cur.Answer = faq.Answer
	cur.Category = faq.Category
	cur.DisplayOrder = faq.DisplayOrder
	cur.UpdatedAt = faq.UpdatedAt
	s.faqs[faq.ID] = cur
	return nil
}

func (s *FAQStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.faqs[id]; !ok {
		return domain.ErrFAQNotFound
	}
	delete(s.faqs, id)
	return nil
}

// SettingStore keeps admin settings in memory.
type SettingStore struct {
	mu       sync.RWMutex
	settings map[string]domain.Setting
}

func NewSettingStore() *SettingStore {
	return &SettingStore{settings: make(map[string]domain.Setting)}
}

func (s *SettingStore) List(_ context.Context) ([]*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Setting, 0, len(s.settings))
	for _, st := range s.settings {
		st := st
		out = append(out, &st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *SettingStore) Get(_ context.Context, key string) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settings[key]
	if !ok {
		return nil, domain.ErrSettingNotFound
	}
	return &st, nil
}

func (s *SettingStore) Upsert(_ context.Context, setting *domain.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.settings[setting.Key]; ok {
		cur.Value = setting.Value
		cur.UpdatedAt = setting.UpdatedAt
		s.settings[setting.Key] = cur
		return nil
	}
	s.settings[setting.Key] = *setting
	return nil
}
