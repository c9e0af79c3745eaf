package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// Auth resolves the bearer token to its user and injects both the user and
// the verified claims into the context.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return unauthorized(c, err.Error())
			}

			user, claims, err := tokens.CurrentSubject(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return unauthorized(c, "invalid token")
				}
				return err
			}

			c.Set(UserKey, user)
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}

// CurrentClaims returns the token claims stored by Auth, or nil.
func CurrentClaims(c echo.Context) *ports.Claims {
	cl, _ := c.Get(ClaimsKey).(*ports.Claims)
	return cl
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
