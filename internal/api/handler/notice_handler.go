package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/ports"
)

type NoticeHandler struct {
	*Base
	notices ports.NoticeService
}

func NewNoticeHandler(base *Base, notices ports.NoticeService) *NoticeHandler {
	return &NoticeHandler{Base: base, notices: notices}
}

// List handles GET /notices. Secretaries manage notices from their panel.
func (h *NoticeHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user.IsSecretary() {
		return h.redirect(c, "/secretary/notices")
	}

	notices, err := h.notices.List(c.Request().Context(), user, 0)
	if err != nil {
		return h.flashError(c, err, "/dashboard")
	}
	return h.render(c, "notices", "Notices", notices)
}

// Manage handles GET /secretary/notices.
func (h *NoticeHandler) Manage(c echo.Context) error {
	notices, err := h.notices.List(c.Request().Context(), currentUser(c), 0)
	if err != nil {
		return h.flashError(c, err, "/secretary")
	}
	return h.render(c, "secretary/notices", "All Notices", notices)
}

func (h *NoticeHandler) PostPage(c echo.Context) error {
	return h.render(c, "secretary/post_notice", "Post Notice", nil)
}

// Post handles POST /secretary/post_notice.
func (h *NoticeHandler) Post(c echo.Context) error {
	var form noticeForm
	if err := c.Bind(&form); err != nil {
		return h.flashRedirect(c, "Invalid notice form.", session.FlashError, "/secretary/post_notice")
	}
	if err := c.Validate(&form); err != nil {
		return h.flashRedirect(c, err.Error(), session.FlashError, "/secretary/post_notice")
	}

	notice, err := h.notices.Post(c.Request().Context(), currentUser(c), ports.PostNoticeInput{
		Title:    form.Title,
		Content:  form.Content,
		Priority: form.Priority,
	})
	if err != nil {
		return h.flashError(c, err, "/secretary/post_notice")
	}

	metrics.NoticesPostedTotal.WithLabelValues(string(notice.Priority)).Inc()
	return h.flashRedirect(c, "Notice posted successfully!", session.FlashSuccess, "/secretary/notices")
}

// Delete handles POST /secretary/delete_notice/:id.
func (h *NoticeHandler) Delete(c echo.Context) error {
	if err := h.notices.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return h.flashError(c, err, "/secretary/notices")
	}
	return h.flashRedirect(c, "Notice deleted successfully!", session.FlashSuccess, "/secretary/notices")
}
