package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prodsmart/core/internal/application/services"
	"github.com/prodsmart/core/internal/ports"
)

var (
	errMissingAuthHeader = errors.New("missing authorization header")
	errInvalidAuthHeader = errors.New("invalid authorization header format")
	errInvalidToken      = errors.New("invalid or expired token")
)

// authMiddleware validates JWT tokens and rejects unauthenticated requests.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := bearerClaims(c, authService)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set("user", claims.UserID.String())
			c.Set("user_email", claims.Email)
			return next(c)
		}
	}
}

// optionalAuthMiddleware attaches claims when a valid token is present but
// lets the request through either way.
func (s *Server) optionalAuthMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := bearerClaims(c, authService); err == nil {
				c.Set("user", claims.UserID.String())
				c.Set("user_email", claims.Email)
			}
			return next(c)
		}
	}
}

func bearerClaims(c echo.Context, authService *services.AuthService) (*ports.Claims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingAuthHeader
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errInvalidAuthHeader
	}
	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}
