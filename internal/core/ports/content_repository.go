package ports

import (
	"context"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// FAQRepository persists FAQ entries.
type FAQRepository interface {
	// List returns all FAQs ordered by display_order ascending.
	List(ctx context.Context) ([]*domain.FAQ, error)
	Create(ctx context.Context, faq *domain.FAQ) error
	// Update replaces question, answer, category, display_order and updated_at.
	Update(ctx context.Context, faq *domain.FAQ) error
	Delete(ctx context.Context, id string) error
}

// SettingRepository persists admin key/value settings.
type SettingRepository interface {
	// List returns every setting ordered by created_at ascending.
	List(ctx context.Context) ([]*domain.Setting, error)
	Get(ctx context.Context, key string) (*domain.Setting, error)
	// Upsert creates the key or replaces its value.
	Upsert(ctx context.Context, setting *domain.Setting) error
}
