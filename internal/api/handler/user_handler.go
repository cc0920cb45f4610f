package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writerhub/marketplace/internal/api/metrics"
	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// UserHandler serves account maintenance. Admin routes sit behind
// middleware.RequireAdmin; UpdateMe is open to any signed-in user.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List handles GET /admin/users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	metrics.AdminOperationsTotal.WithLabelValues("list_users", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// ResetPassword handles POST /admin/users/:id/reset-password.
//
// @Summary      Reset a user's password
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                true  "User ID"
// @Param        body  body  resetPasswordRequest  true  "New password"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.authService.ResetPassword(c.Request().Context(), c.Param("id"), req.NewPassword)
	metrics.AdminOperationsTotal.WithLabelValues("reset_password", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminUpdate handles PATCH /admin/users/:id. Admins may change any field.
//
// @Summary      Update any user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User ID"
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id} [patch]
func (h *UserHandler) AdminUpdate(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(c.Request().Context(), c.Param("id"), req.toDomain())
	metrics.AdminOperationsTotal.WithLabelValues("update_user", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateMe handles PATCH /users/me. Callers cannot grant themselves admin or
// change their own active flag.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	id, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	current, err := h.authService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	update := req.toDomain()
	if !current.IsAdmin() {
		if update.IsActive != nil {
			return domain.ErrForbidden
		}
		if update.UserType != nil && *update.UserType == domain.UserTypeAdmin {
			return domain.ErrForbidden
		}
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), id, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}
