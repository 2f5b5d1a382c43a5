package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/domain"
)

const ctxKeyUser = "current_user"

// IdentityResolver turns a bearer token or a session user id into a user.
type IdentityResolver interface {
	ParseToken(token string) (string, error)
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
}

// Identity resolves the caller and stores the *domain.User on the echo
// context. A bearer token takes precedence over the session cookie. Requests
// without credentials continue anonymously; a bad bearer token is rejected.
func Identity(resolver IdentityResolver, sm *scs.SessionManager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}

				userID, err := resolver.ParseToken(strings.TrimSpace(parts[1]))
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				user, err := resolver.CurrentUser(ctx, userID)
				if err != nil {
					if errors.Is(err, domain.ErrUserNotFound) {
						return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
					}
					return err
				}
				SetUser(c, user)
				return next(c)
			}

			if userID := session.UserID(ctx, sm); userID != "" {
				user, err := resolver.CurrentUser(ctx, userID)
				switch {
				case err == nil:
					SetUser(c, user)
				case errors.Is(err, domain.ErrUserNotFound):
					// The account behind the session is gone.
					sm.Remove(ctx, session.KeyUserID)
				default:
					log.Error().Err(err).Str("user_id", userID).Msg("failed to load session user")
					return err
				}
			}
			return next(c)
		}
	}
}

// SetUser stores user as the caller of this request.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(ctxKeyUser, user)
}

// UserFrom returns the caller resolved by Identity, or nil.
func UserFrom(c echo.Context) *domain.User {
	user, _ := c.Get(ctxKeyUser).(*domain.User)
	return user
}
