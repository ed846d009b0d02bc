package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const userContextKey = "user"

// bearerAuth resolves the request's account and stores it in the context.
// Every failure is a plain 401; the reason is only logged.
func bearerAuth(authService AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
			}

			user, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, common.ErrorUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
				}
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// currentUser returns the account set by bearerAuth.
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

func requestLogger(logger logging.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			m.ObserveHTTP(v.Method, v.RoutePath, v.Status, v.Latency)

			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if user := currentUser(c); user != nil {
				args = append(args, "user_id", user.ID)
			}
			logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}
