package ports

import (
	"context"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// FAQInput is the editable part of an FAQ.
type FAQInput struct {
	Question     string
	Answer       string
	Category     string
	DisplayOrder int
}

// ContentService manages the admin-editable site content.
type ContentService interface {
	ListSettings(ctx context.Context) ([]*domain.Setting, error)
	UpsertSetting(ctx context.Context, key, value string) error

	ListFAQs(ctx context.Context) ([]*domain.FAQ, error)
	CreateFAQ(ctx context.Context, in FAQInput) (*domain.FAQ, error)
	UpdateFAQ(ctx context.Context, id string, in FAQInput) error
	DeleteFAQ(ctx context.Context, id string) error

	PricingPlans(ctx context.Context) ([]domain.PricingPlan, error)
	SetPricingPlans(ctx context.Context, plans []domain.PricingPlan) error
	JobPostingFee(ctx context.Context) (int, error)
	SetJobPostingFee(ctx context.Context, fee int) error
}
