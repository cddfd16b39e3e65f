package controller

import (
	"jobify-api/internal/entity"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo"
)

const principalKey = "principal"

type TokenVerifier interface {
	Verify(token string) (entity.Principal, error)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			logger.Info("request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Duration("elapsed", time.Since(start)),
			)

			return nil
		}
	}
}

func recoverPanics(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic", slog.Any("panic", r), slog.String("path", c.Request().URL.Path))
					err = c.JSON(http.StatusInternalServerError, errorResponse{"Internal error"})
				}
			}()

			return next(c)
		}
	}
}

// authenticate resolves the bearer token into the caller's principal.
// A missing token is 401, a token that fails verification is 403.
func authenticate(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if header == "" || token == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Authorization token is missing"})
			}

			p, err := tokens.Verify(token)
			if err != nil {
				return c.JSON(http.StatusForbidden, errorResponse{"Authorization token is invalid or expired"})
			}

			c.Set(principalKey, p)

			return next(c)
		}
	}
}

func requireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if principal(c).Role != role {
				return c.JSON(http.StatusForbidden, errorResponse{"Only " + string(role) + " accounts can do this"})
			}

			return next(c)
		}
	}
}

func principal(c echo.Context) entity.Principal {
	p, _ := c.Get(principalKey).(entity.Principal)

	return p
}
