package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
	"github.com/hyperlocal/community/internal/view"
)

type ChatHandler struct {
	*Base
	chat      ports.ChatService
	maxLength int
}

func NewChatHandler(base *Base, chat ports.ChatService, maxLength int) *ChatHandler {
	return &ChatHandler{Base: base, chat: chat, maxLength: maxLength}
}

// Show handles GET /chat.
func (h *ChatHandler) Show(c echo.Context) error {
	messages, err := h.chat.History(c.Request().Context(), currentUser(c), 0)
	if err != nil {
		return h.flashError(c, err, "/")
	}
	return h.render(c, "chat", "Community Chat", view.ChatData{Messages: messages, MaxLength: h.maxLength})
}

// Post handles POST /chat. Blank messages are ignored.
func (h *ChatHandler) Post(c echo.Context) error {
	var form chatForm
	if err := c.Bind(&form); err != nil {
		return h.redirect(c, "/chat")
	}

	if strings.TrimSpace(form.Message) == "" {
		return h.redirect(c, "/chat")
	}

	if _, err := h.chat.Post(c.Request().Context(), currentUser(c), form.Message); err != nil {
		return h.flashError(c, err, "/chat")
	}

	metrics.ChatMessagesTotal.Inc()
	return h.redirect(c, "/chat")
}

// Delete handles POST /delete_message/:id. Authors may delete their own
// messages and secretaries any message.
func (h *ChatHandler) Delete(c echo.Context) error {
	err := h.chat.Delete(c.Request().Context(), currentUser(c), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		metrics.AccessDeniedTotal.WithLabelValues(string(policy.DeleteChat)).Inc()
		return h.flashRedirect(c, "Access denied. You can only delete your own messages.", session.FlashError, "/chat")
	case err != nil:
		return h.flashError(c, err, "/chat")
	}
	return h.flashRedirect(c, "Message deleted successfully!", session.FlashSuccess, "/chat")
}
