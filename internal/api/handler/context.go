package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/api/middleware"
	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was registered without Auth; reject with 401.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
