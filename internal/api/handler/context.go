package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/middleware"
	"github.com/hyperlocal/community/internal/core/domain"
)

// currentUser returns the caller resolved by the Identity middleware, or nil
// for anonymous requests. Handlers pass it to services explicitly.
func currentUser(c echo.Context) *domain.User {
	return middleware.UserFrom(c)
}

// homePath is where a signed-in user lands.
func homePath(u *domain.User) string {
	if u.IsSecretary() {
		return "/secretary"
	}
	return "/dashboard"
}
