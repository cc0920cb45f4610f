package handler

import "github.com/writerhub/marketplace/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signUpRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,max=72"`
	FullName string `json:"full_name" validate:"max=200"`
	UserType string `json:"user_type" validate:"omitempty,oneof=writer business admin"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Users ---

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

type updateProfileRequest struct {
	FullName  *string   `json:"full_name"  validate:"omitempty,max=200"`
	UserType  *string   `json:"user_type"  validate:"omitempty,oneof=writer business admin"`
	AvatarURL *string   `json:"avatar_url" validate:"omitempty,url"`
	Bio       *string   `json:"bio"        validate:"omitempty,max=2000"`
	Skills    *[]string `json:"skills"`
	Location  *string   `json:"location"   validate:"omitempty,max=200"`
	IsActive  *bool     `json:"is_active"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	p := domain.ProfileUpdate{
		FullName:  r.FullName,
		AvatarURL: r.AvatarURL,
		Bio:       r.Bio,
		Skills:    r.Skills,
		Location:  r.Location,
		IsActive:  r.IsActive,
	}
	if r.UserType != nil {
		ut := domain.UserType(*r.UserType)
		p.UserType = &ut
	}
	return p
}

// --- Content ---

type faqRequest struct {
	Question     string `json:"question"      validate:"required"`
	Answer       string `json:"answer"        validate:"required"`
	Category     string `json:"category"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
}

type listFAQsResponse struct {
	FAQs []*domain.FAQ `json:"faqs"`
}

type listSettingsResponse struct {
	Settings []*domain.Setting `json:"settings"`
}

type settingRequest struct {
	Value string `json:"setting_value"`
}

type pricingResponse struct {
	Plans []domain.PricingPlan `json:"plans"`
}

type pricingRequest struct {
	Plans []domain.PricingPlan `json:"plans" validate:"dive"`
}

type jobPostingFeeBody struct {
	Fee int `json:"fee" validate:"min=0"`
}
