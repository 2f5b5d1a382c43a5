package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/ports"
)

type ProfileHandler struct {
	*Base
	profiles ports.ProfileService
}

func NewProfileHandler(base *Base, profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{Base: base, profiles: profiles}
}

func (h *ProfileHandler) Show(c echo.Context) error {
	return h.render(c, "profile", "Profile", nil)
}

// Update handles POST /profile. Blank fields keep their current value; the
// password only changes when all three password fields are filled.
func (h *ProfileHandler) Update(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return h.flashRedirect(c, "Invalid profile form.", session.FlashError, "/profile")
	}
	if err := c.Validate(&form); err != nil {
		return h.flashRedirect(c, err.Error(), session.FlashError, "/profile")
	}

	res, err := h.profiles.Update(c.Request().Context(), currentUser(c), ports.ProfileInput{
		Name:            form.Name,
		Apartment:       form.Apartment,
		Email:           form.Email,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return h.flashError(c, err, "/profile")
	}

	if res.NoChanges() {
		return h.flashRedirect(c, "No changes to update.", session.FlashInfo, "/profile")
	}
	return h.flashRedirect(c, "Profile updated successfully!", session.FlashSuccess, "/profile")
}
