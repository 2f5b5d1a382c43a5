package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/policy"
)

const (
	LoginRequiredMessage = "Please login to access this page."
	AccessDeniedMessage  = "Access denied. Secretary privileges required."
)

// RequireUser redirects anonymous callers to the login page.
func RequireUser(sm *scs.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserFrom(c) == nil {
				session.SetFlash(c.Request().Context(), sm, LoginRequiredMessage, session.FlashError)
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// Require guards an HTML route with a policy action. Anonymous callers and
// callers the policy denies are sent to the login page with a flash.
// Actions that need a target (ReadRequest, DeleteChat) belong in the service.
func Require(sm *scs.SessionManager, action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil {
				session.SetFlash(c.Request().Context(), sm, LoginRequiredMessage, session.FlashError)
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if !policy.CanPerform(user, action, nil) {
				metrics.AccessDeniedTotal.WithLabelValues(string(action)).Inc()
				session.SetFlash(c.Request().Context(), sm, AccessDeniedMessage, session.FlashError)
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireAPI guards a JSON route with a policy action.
func RequireAPI(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil || !policy.CanPerform(user, action, nil) {
				metrics.AccessDeniedTotal.WithLabelValues(string(action)).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
			}
			return next(c)
		}
	}
}
