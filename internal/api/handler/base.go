package handler

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/api/middleware"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/view"
)

// Base carries what every HTML handler needs to render pages and flash
// messages.
type Base struct {
	sessions *scs.SessionManager
	appName  string
	catalog  domain.Catalog
	log      zerolog.Logger
}

func NewBase(sessions *scs.SessionManager, appName string, log zerolog.Logger) *Base {
	return &Base{sessions: sessions, appName: appName, catalog: domain.NewCatalog(), log: log}
}

// render executes a page with the caller, the pending flash and the label
// catalog filled in.
func (b *Base) render(c echo.Context, name, title string, data any) error {
	page := view.Page{
		AppName:     b.appName,
		Title:       title,
		CurrentUser: currentUser(c),
		Catalog:     b.catalog,
		Data:        data,
	}
	if f := session.PopFlash(c.Request().Context(), b.sessions); f != nil {
		page.Flash = &view.Flash{Message: f.Message, Type: f.Type}
	}
	return c.Render(http.StatusOK, name, page)
}

func (b *Base) flash(c echo.Context, message, flashType string) {
	session.SetFlash(c.Request().Context(), b.sessions, message, flashType)
}

// redirect answers a form post with 303 so the browser follows with a GET.
func (b *Base) redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func (b *Base) flashRedirect(c echo.Context, message, flashType, to string) error {
	b.flash(c, message, flashType)
	return b.redirect(c, to)
}

// flashError turns a domain error into a flash message and redirects to the
// given path. Errors with no user-facing message are returned to the error
// handler.
func (b *Base) flashError(c echo.Context, err error, to string) error {
	msg, ok := userMessage(err)
	if !ok {
		b.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return err
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		to = "/login"
	}
	return b.flashRedirect(c, msg, session.FlashError, to)
}

// userMessage maps domain errors onto the text shown to people.
func userMessage(err error) (string, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return humanize(ve.Field) + " " + ve.Reason + ".", true
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password.", true
	case errors.Is(err, domain.ErrEmailTaken):
		return "This email is already in use by another account.", true
	case errors.Is(err, domain.ErrUnauthenticated):
		return middleware.LoginRequiredMessage, true
	case errors.Is(err, domain.ErrAccessDenied):
		return middleware.AccessDeniedMessage, true
	case errors.Is(err, domain.ErrMissingPasswordFields):
		return "Please fill all password fields to change your password.", true
	case errors.Is(err, domain.ErrInvalidCurrentPassword):
		return "Current password is incorrect.", true
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "New password and confirmation do not match.", true
	case errors.Is(err, domain.ErrNoticeNotFound):
		return "Notice not found.", true
	case errors.Is(err, domain.ErrRequestNotFound):
		return "Service request not found.", true
	case errors.Is(err, domain.ErrMessageNotFound):
		return "Message not found.", true
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return "This request is already being submitted.", true
	case errors.Is(err, domain.ErrRateLimited):
		return "You are sending messages too quickly. Please wait a moment.", true
	case errors.Is(err, domain.ErrInvalidTransition):
		return "That status change is not allowed.", true
	}
	return "", false
}
