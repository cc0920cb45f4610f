package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/writerhub/marketplace/internal/api/middleware"
)

// ctxUserID extracts the subject injected by the Auth middleware. Its
// presence proves the middleware ran; an empty value is rejected with 401.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the registered
// validator. Both failures come back as a 400 HTTPError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return nil
}
