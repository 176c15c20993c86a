package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// accountIDKey is the echo context key the middleware stores the
// authenticated account id under.
const accountIDKey = "auth.account_id"

type Middleware struct {
	service *Service
}

func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAccessToken guards a route with a Bearer access token and puts
// the token's account id into the request context.
func (m *Middleware) RequireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "missing access token"})
		}

		claims, err := m.service.ParseAccessToken(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid access token"})
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "invalid access token"})
		}

		c.Set(accountIDKey, id)
		return next(c)
	}
}

// AccountID returns the authenticated account id stored by
// RequireAccessToken.
func AccountID(c echo.Context) (uint64, error) {
	id, ok := c.Get(accountIDKey).(uint64)
	if !ok {
		return 0, errors.New("account id not found in context")
	}
	return id, nil
}
