package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/core/ports"
)

type DashboardHandler struct {
	*Base
	dashboards ports.DashboardService
}

func NewDashboardHandler(base *Base, dashboards ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{Base: base, dashboards: dashboards}
}

// Dashboard handles GET /dashboard. Secretaries have their own panel.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	user := currentUser(c)
	if user.IsSecretary() {
		return h.redirect(c, "/secretary")
	}

	data, err := h.dashboards.Resident(c.Request().Context(), user)
	if err != nil {
		return h.flashError(c, err, "/")
	}
	return h.render(c, "dashboard", "Dashboard", data)
}

// Secretary handles GET /secretary.
func (h *DashboardHandler) Secretary(c echo.Context) error {
	data, err := h.dashboards.Secretary(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.flashError(c, err, "/login")
	}
	return h.render(c, "secretary/dashboard", "Secretary Panel", data)
}

// Users handles GET /secretary/users.
func (h *DashboardHandler) Users(c echo.Context) error {
	residents, err := h.dashboards.Residents(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.flashError(c, err, "/login")
	}
	return h.render(c, "secretary/users", "Residents", residents)
}
