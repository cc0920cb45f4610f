package domain

import "time"

// Well-known setting keys.
const (
	SettingPricingPlans  = "pricing_plans"
	SettingJobPostingFee = "job_posting_fee"
)

// FAQ is a question/answer pair shown on the support page.
type FAQ struct {
	ID           string    `json:"id" bson:"_id"`
	Question     string    `json:"question" bson:"question"`
	Answer       string    `json:"answer" bson:"answer"`
	Category     string    `json:"category" bson:"category"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Setting is a raw key/value admin setting.
type Setting struct {
	Key       string    `json:"setting_key" bson:"setting_key"`
	Value     string    `json:"setting_value" bson:"setting_value"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PricingPlan is one entry of the pricing_plans setting.
type PricingPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}
