package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writerhub/marketplace/internal/api/metrics"
	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// ContentHandler serves FAQs, pricing and admin settings.
type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// --- Public ---

// ListFAQs handles GET /faqs.
//
// @Summary      List FAQs
// @Tags         content
// @Produce      json
// @Success      200  {object}  listFAQsResponse
// @Router       /faqs [get]
func (h *ContentHandler) ListFAQs(c echo.Context) error {
	faqs, err := h.service.ListFAQs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listFAQsResponse{FAQs: faqs})
}

// Pricing handles GET /pricing. An unset pricing_plans setting yields an
// empty list.
//
// @Summary      Pricing plans
// @Tags         content
// @Produce      json
// @Success      200  {object}  pricingResponse
// @Failure      500  {object}  errorResponse
// @Router       /pricing [get]
func (h *ContentHandler) Pricing(c echo.Context) error {
	plans, err := h.service.PricingPlans(c.Request().Context())
	if err != nil {
		if !errors.Is(err, domain.ErrSettingNotFound) {
			return err
		}
		plans = []domain.PricingPlan{}
	}
	return c.JSON(http.StatusOK, pricingResponse{Plans: plans})
}

// JobPostingFee handles GET /settings/job-posting-fee.
//
// @Summary      Job posting fee
// @Tags         content
// @Produce      json
// @Success      200  {object}  jobPostingFeeBody
// @Failure      404  {object}  errorResponse
// @Router       /settings/job-posting-fee [get]
func (h *ContentHandler) JobPostingFee(c echo.Context) error {
	fee, err := h.service.JobPostingFee(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobPostingFeeBody{Fee: fee})
}

// --- Admin ---

// CreateFAQ handles POST /admin/faqs.
//
// @Summary      Create an FAQ
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      faqRequest  true  "FAQ"
// @Success      201   {object}  domain.FAQ
// @Failure      400   {object}  errorResponse
// @Router       /admin/faqs [post]
func (h *ContentHandler) CreateFAQ(c echo.Context) error {
	var req faqRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	faq, err := h.service.CreateFAQ(c.Request().Context(), req.toInput())
	metrics.AdminOperationsTotal.WithLabelValues("create_faq", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, faq)
}

// UpdateFAQ handles PUT /admin/faqs/:id.
//
// @Summary      Update an FAQ
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string      true  "FAQ ID"
// @Param        body  body  faqRequest  true  "FAQ"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/faqs/{id} [put]
func (h *ContentHandler) UpdateFAQ(c echo.Context) error {
	var req faqRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.service.UpdateFAQ(c.Request().Context(), c.Param("id"), req.toInput())
	metrics.AdminOperationsTotal.WithLabelValues("update_faq", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteFAQ handles DELETE /admin/faqs/:id.
//
// @Summary      Delete an FAQ
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "FAQ ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/faqs/{id} [delete]
func (h *ContentHandler) DeleteFAQ(c echo.Context) error {
	err := h.service.DeleteFAQ(c.Request().Context(), c.Param("id"))
	metrics.AdminOperationsTotal.WithLabelValues("delete_faq", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSettings handles GET /admin/settings.
//
// @Summary      List raw settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listSettingsResponse
// @Router       /admin/settings [get]
func (h *ContentHandler) ListSettings(c echo.Context) error {
	settings, err := h.service.ListSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listSettingsResponse{Settings: settings})
}

// UpsertSetting handles PUT /admin/settings/:key.
//
// @Summary      Set a raw setting
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        key   path  string          true  "Setting key"
// @Param        body  body  settingRequest  true  "Value"
// @Success      204
// @Router       /admin/settings/{key} [put]
func (h *ContentHandler) UpsertSetting(c echo.Context) error {
	var req settingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.service.UpsertSetting(c.Request().Context(), c.Param("key"), req.Value)
	metrics.AdminOperationsTotal.WithLabelValues("upsert_setting", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPricing handles PUT /admin/pricing.
//
// @Summary      Replace pricing plans
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  pricingRequest  true  "Plans"
// @Success      204
// @Router       /admin/pricing [put]
func (h *ContentHandler) SetPricing(c echo.Context) error {
	var req pricingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.service.SetPricingPlans(c.Request().Context(), req.Plans)
	metrics.AdminOperationsTotal.WithLabelValues("set_pricing", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetJobPostingFee handles PUT /admin/job-posting-fee.
//
// @Summary      Set the job posting fee
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  jobPostingFeeBody  true  "Fee"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Router       /admin/job-posting-fee [put]
func (h *ContentHandler) SetJobPostingFee(c echo.Context) error {
	var req jobPostingFeeBody
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.service.SetJobPostingFee(c.Request().Context(), req.Fee)
	metrics.AdminOperationsTotal.WithLabelValues("set_job_posting_fee", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r faqRequest) toInput() ports.FAQInput {
	return ports.FAQInput{
		Question:     r.Question,
		Answer:       r.Answer,
		Category:     r.Category,
		DisplayOrder: r.DisplayOrder,
	}
}
