package middleware

import (
	"net/http"
	"strings"

	"transport-payroll/internal/domain/actor"
	"transport-payroll/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Identity headers set by the gateway in front of the service.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRoles = "X-User-Roles"
	HeaderDriverID  = "X-Driver-Id"
)

// Authenticate reads the caller identity from the gateway headers into the
// request context. A request without X-User-Id is rejected with 401.
func Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			userID := strings.TrimSpace(req.Header.Get(HeaderUserID))
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			a := actor.Actor{
				UserID:    userID,
				Email:     strings.TrimSpace(req.Header.Get(HeaderUserEmail)),
				Roles:     actor.ParseRoles(req.Header.Get(HeaderUserRoles)),
				DriverID:  strings.TrimSpace(req.Header.Get(HeaderDriverID)),
				RequestID: logger.RequestID(req.Context()),
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
			}
			ctx := actor.WithActor(req.Context(), a)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("user_id", userID)))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRoles lets the request through when the caller holds any of roles.
func RequireRoles(roles ...actor.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentActor(c).HasRole(roles...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}

// RequireDriver admits DRIVER callers that carry a driver id.
func RequireDriver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a := CurrentActor(c)
			if !a.HasRole(actor.RoleDriver) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			if !a.IsDriver() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "driver profile not found for this user"})
			}
			return next(c)
		}
	}
}

func CurrentActor(c echo.Context) actor.Actor {
	return actor.FromContext(c.Request().Context())
}
