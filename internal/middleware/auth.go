package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
	"userhub/internal/identity"
)

const (
	// ContextUserKey is where the resolved external identity is stored.
	ContextUserKey = "external_user"
	// ContextTokenKey is where the raw bearer token is stored.
	ContextTokenKey = "access_token"
)

// TokenResolver resolves a bearer token to the identity behind it.
// service.AuthService satisfies it; resolution failures are auth errors.
type TokenResolver interface {
	CurrentUser(ctx context.Context, token string) (*identity.ExternalUser, error)
}

// RequireToken resolves the bearer token and stores the resulting identity in
// the request context. Resolution happens on every request; there is no local
// session store to consult.
func RequireToken(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Detail: "missing authorization token",
				})
			}

			ext, err := resolver.CurrentUser(c.Request().Context(), token)
			if err != nil {
				he := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
			}

			c.Set(ContextUserKey, ext)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header, or "" if the
// header is missing or not a bearer scheme.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
