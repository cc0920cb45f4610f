package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writerhub/marketplace/internal/core/domain"
)

// UserLookup loads the current state of an account.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// CtxCurrentUser holds the *domain.User loaded by RequireUserType.
const CtxCurrentUser = "current_user"

// RequireUserType reloads the caller from the store on every request and
// lets it through only when the account is active and of an allowed type.
// Token claims are not trusted for this decision.
func RequireUserType(lookup UserLookup, allowedTypes ...domain.UserType) echo.MiddlewareFunc {
	allowed := make(map[domain.UserType]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(CtxUserID).(string)
			if id == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authentication claims"})
			}

			user, err := lookup.GetUser(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
				}
				return err
			}
			if _, ok := allowed[user.UserType]; !ok || !user.IsActive {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			c.Set(CtxCurrentUser, user)
			return next(c)
		}
	}
}

// RequireAdmin is RequireUserType restricted to active admins.
func RequireAdmin(lookup UserLookup) echo.MiddlewareFunc {
	return RequireUserType(lookup, domain.UserTypeAdmin)
}
