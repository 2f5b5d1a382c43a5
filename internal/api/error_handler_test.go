package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/view"
)

func TestResolveError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"validation", domain.Invalid("title", "is required"), http.StatusUnprocessableEntity, "title is required"},
		{"notice not found", domain.ErrNoticeNotFound, http.StatusNotFound, "notice not found"},
		{"wrapped request not found", fmt.Errorf("loading: %w", domain.ErrRequestNotFound), http.StatusNotFound, "service request not found"},
		{"access denied", domain.ErrAccessDenied, http.StatusForbidden, "Access denied"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "email already in use"},
		{"duplicate submission", domain.ErrDuplicateSubmission, http.StatusConflict, "duplicate submission"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "too many requests"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			code, msg := resolveError(tt.err, zerolog.Nop(), c)
			if code != tt.wantCode || msg != tt.wantMsg {
				t.Fatalf("got %d %q, want %d %q", code, msg, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_NegotiatesFormat(t *testing.T) {
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = renderer
	handle := NewHTTPErrorHandler(zerolog.Nop(), "Community Hub")

	tests := []struct {
		name        string
		path        string
		accept      string
		err         error
		wantCode    int
		wantContent string
	}{
		{"api path gets json", "/api/auth/token", "", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"status endpoint gets json", "/secretary/update_request_status", "text/html", domain.ErrAccessDenied, http.StatusForbidden, `{"error":"Access denied"}`},
		{"accept json", "/notices", "application/json", domain.ErrNoticeNotFound, http.StatusNotFound, `{"error":"notice not found"}`},
		{"browser 404 page", "/notices", "text/html", domain.ErrNoticeNotFound, http.StatusNotFound, "The page you are looking for does not exist."},
		{"browser 500 page", "/chat", "text/html", errors.New("boom"), http.StatusInternalServerError, "Server Error"},
		{"browser other status", "/login", "text/html", domain.ErrRateLimited, http.StatusTooManyRequests, "too many requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set(echo.HeaderAccept, tt.accept)
			}
			rec := httptest.NewRecorder()
			handle(tt.err, e.NewContext(req, rec))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantContent) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantContent, rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	NewHTTPErrorHandler(zerolog.Nop(), "Community Hub")(domain.ErrNoticeNotFound, e.NewContext(httptest.NewRequest(http.MethodHead, "/notices", nil), rec))

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected an empty 404, got %d %q", rec.Code, rec.Body.String())
	}
}
