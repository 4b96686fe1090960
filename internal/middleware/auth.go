package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/denoblevoices/ticketing/internal/auth"
	"github.com/denoblevoices/ticketing/internal/models"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	ctxAdminID = "admin_id"
	ctxRole    = "role"
)

// JWTAuth validates the Bearer access token and stores the caller's admin ID
// and role in the request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := auth.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxAdminID, claims.AdminID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// RequirePermission loads the caller's account and checks the capability
// against the database, so revocations apply to tokens issued earlier.
// Deactivated accounts are rejected outright.
func RequirePermission(admins repository.AdminRepository, perm models.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			adminID := ActorID(c)
			if adminID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			admin, err := admins.FindByID(c.Request().Context(), adminID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown admin")
				}
				return err
			}
			if !admin.Active {
				return echo.NewHTTPError(http.StatusForbidden, "account deactivated")
			}
			if !admin.Has(perm) {
				return echo.NewHTTPError(http.StatusForbidden, "missing permission: "+string(perm))
			}
			return next(c)
		}
	}
}

// ActorID returns the authenticated admin ID, or "" on unauthenticated routes.
func ActorID(c echo.Context) string {
	id, _ := c.Get(ctxAdminID).(string)
	return id
}
