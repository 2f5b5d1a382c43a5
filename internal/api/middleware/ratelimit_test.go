package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCredentialRateLimit(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, CredentialRateLimit(2))

	var limited *echo.HTTPError
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		errors.As(err, &limited)
		_ = c.NoContent(http.StatusTooManyRequests)
	}

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("10.0.0.1"); code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected 204, got %d", i+1, code)
		}
	}
	if code := post("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the burst, got %d", code)
	}
	if limited == nil || limited.Message != TooManyAttemptsMessage {
		t.Fatalf("unexpected deny error: %v", limited)
	}

	if code := post("10.0.0.2"); code != http.StatusNoContent {
		t.Fatalf("another client must not be limited, got %d", code)
	}
}
