package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/ports"
	"github.com/hyperlocal/community/internal/view"
)

type RequestHandler struct {
	*Base
	requests ports.RequestService
}

func NewRequestHandler(base *Base, requests ports.RequestService) *RequestHandler {
	return &RequestHandler{Base: base, requests: requests}
}

// List handles GET /service_requests. Every render carries a fresh
// idempotency key so a double-submitted form creates one request.
func (h *RequestHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user.IsSecretary() {
		return h.redirect(c, "/secretary/requests")
	}

	requests, err := h.requests.ListForActor(c.Request().Context(), user)
	if err != nil {
		return h.flashError(c, err, "/dashboard")
	}
	return h.render(c, "service_requests", "Service Requests", view.ServiceRequestsData{
		Requests:       requests,
		IdempotencyKey: uuid.NewString(),
	})
}

// Submit handles POST /service_requests.
func (h *RequestHandler) Submit(c echo.Context) error {
	var form serviceRequestForm
	if err := c.Bind(&form); err != nil {
		return h.flashRedirect(c, "Invalid service request form.", session.FlashError, "/service_requests")
	}
	if err := c.Validate(&form); err != nil {
		return h.flashRedirect(c, err.Error(), session.FlashError, "/service_requests")
	}

	res, err := h.requests.Submit(c.Request().Context(), currentUser(c), ports.SubmitRequestInput{
		Title:          form.Title,
		Description:    form.Description,
		Category:       form.Category,
		Priority:       form.Priority,
		IdempotencyKey: form.IdempotencyKey,
	})
	if err != nil {
		return h.flashError(c, err, "/service_requests")
	}

	if !res.AlreadyExisted {
		metrics.RequestsSubmittedTotal.WithLabelValues(string(res.Request.Category), string(res.Request.Priority)).Inc()
	}
	return h.flashRedirect(c, "Service request submitted successfully!", session.FlashSuccess, "/service_requests")
}

// Manage handles GET /secretary/requests.
func (h *RequestHandler) Manage(c echo.Context) error {
	requests, err := h.requests.ListForActor(c.Request().Context(), currentUser(c))
	if err != nil {
		return h.flashError(c, err, "/secretary")
	}
	return h.render(c, "secretary/requests", "Service Requests", requests)
}

// UpdateStatus sets the status of a service request.
//
// @Summary      Update a service request status
// @Tags         requests
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request_id  formData  string  true  "Service request id"
// @Param        status      formData  string  true  "New status"  Enums(pending, in_progress, resolved, cancelled)
// @Success      200         {object}  statusUpdateResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /secretary/update_request_status [post]
func (h *RequestHandler) UpdateStatus(c echo.Context) error {
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.requests.SetStatus(c.Request().Context(), currentUser(c), req.RequestID, req.Status)
	if err != nil {
		return err
	}

	metrics.RequestStatusChangesTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, statusUpdateResponse{Success: true, Status: string(updated.Status)})
}
