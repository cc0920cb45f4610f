package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// ContentService manages FAQs and admin settings, including the typed
// pricing_plans and job_posting_fee settings.
type ContentService struct {
	faqs     ports.FAQRepository
	settings ports.SettingRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewContentService(faqs ports.FAQRepository, settings ports.SettingRepository, logger zerolog.Logger) *ContentService {
	return &ContentService{
		faqs:     faqs,
		settings: settings,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContentService) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	out, err := s.settings.List(ctx)
	if err != nil {
		return nil, domain.NewStoreError("list settings", err)
	}
	return out, nil
}

func (s *ContentService) UpsertSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrInvalidInput
	}
	now := s.now()
	if err := s.settings.Upsert(ctx, &domain.Setting{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}); err != nil {
		s.logger.Error().Err(err).Str("setting_key", key).Msg("failed to upsert setting")
		return domain.NewStoreError("upsert setting", err)
	}
	s.logger.Info().Str("setting_key", key).Msg("setting updated")
	return nil
}

func (s *ContentService) ListFAQs(ctx context.Context) ([]*domain.FAQ, error) {
	out, err := s.faqs.List(ctx)
	if err != nil {
		return nil, domain.NewStoreError("list faqs", err)
	}
	return out, nil
}

func (s *ContentService) CreateFAQ(ctx context.Context, in ports.FAQInput) (*domain.FAQ, error) {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := s.now()
	faq := &domain.FAQ{
		ID:           uuid.NewString(),
		Question:     in.Question,
		Answer:       in.Answer,
		Category:     in.Category,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.faqs.Create(ctx, faq); err != nil {
		s.logger.Error().Err(err).Msg("failed to create faq")
		return nil, domain.NewStoreError("create faq", err)
	}
	s.logger.Info().Str("faq_id", faq.ID).Msg("faq created")
	return faq, nil
}

func (s *ContentService) UpdateFAQ(ctx context.Context, id string, in ports.FAQInput) error {
	if id == "" || strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return domain.ErrInvalidInput
	}
	err := s.faqs.Update(ctx, &domain.FAQ{
		ID:           id,
		Question:     in.Question,
		Answer:       in.Answer,
		Category:     in.Category,
		DisplayOrder: in.DisplayOrder,
		UpdatedAt:    s.now(),
	})
	return faqErr("update faq", err)
}

func (s *ContentService) DeleteFAQ(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.faqs.Delete(ctx, id); err != nil {
		return faqErr("delete faq", err)
	}
	s.logger.Info().Str("faq_id", id).Msg("faq deleted")
	return nil
}

// PricingPlans decodes the pricing_plans setting.
func (s *ContentService) PricingPlans(ctx context.Context) ([]domain.PricingPlan, error) {
	raw, err := s.setting(ctx, domain.SettingPricingPlans)
	if err != nil {
		return nil, err
	}
	var plans []domain.PricingPlan
	if err := json.Unmarshal([]byte(raw), &plans); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSetting, domain.SettingPricingPlans, err)
	}
	return plans, nil
}

func (s *ContentService) SetPricingPlans(ctx context.Context, plans []domain.PricingPlan) error {
	if plans == nil {
		plans = []domain.PricingPlan{}
	}
	raw, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	return s.UpsertSetting(ctx, domain.SettingPricingPlans, string(raw))
}

// JobPostingFee reads the job_posting_fee setting as an integer amount.
func (s *ContentService) JobPostingFee(ctx context.Context) (int, error) {
	raw, err := s.setting(ctx, domain.SettingJobPostingFee)
	if err != nil {
		return 0, err
	}
	fee, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSetting, domain.SettingJobPostingFee, err)
	}
	return fee, nil
}

func (s *ContentService) SetJobPostingFee(ctx context.Context, fee int) error {
	if fee < 0 {
		return domain.ErrInvalidInput
	}
	return s.UpsertSetting(ctx, domain.SettingJobPostingFee, strconv.Itoa(fee))
}

func (s *ContentService) setting(ctx context.Context, key string) (string, error) {
	st, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSettingNotFound) {
			return "", domain.ErrSettingNotFound
		}
		return "", domain.NewStoreError("get setting", err)
	}
	return st.Value, nil
}

func faqErr(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrFAQNotFound) {
		return err
	}
	return domain.NewStoreError(op, err)
}
