package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/writerhub/marketplace/internal/api/metrics"
	"github.com/writerhub/marketplace/internal/api/middleware"
	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	jwtSecret   string
	tokenTTL    time.Duration
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

// SignUp creates a new account. It does not sign the user in.
//
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignUpsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		UserType: domain.UserType(req.UserType),
	})
	metrics.SignUpsTotal.WithLabelValues(signUpResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// SignIn verifies credentials and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignInsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = metrics.ResultRejected
		}
		metrics.SignInsTotal.WithLabelValues(result).Inc()
		return err
	}

	now := h.now()
	token, err := middleware.IssueToken(h.jwtSecret, h.tokenTTL, user, now)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	metrics.SignInsTotal.WithLabelValues(metrics.ResultOK).Inc()

	return c.JSON(http.StatusOK, signInResponse{
		Token:     token,
		ExpiresAt: now.Add(h.tokenTTL).Unix(),
		User:      user,
	})
}

// Me returns the stored account of the bearer.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

func signUpResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrDuplicateEmail):
		return metrics.ResultDuplicate
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.ResultInvalid
	}
	return metrics.ResultError
}
