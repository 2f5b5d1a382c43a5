package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

func newProfileHarness(t *testing.T, stub *stubProfileService) *harness {
	h := newHarness(t, resident)
	ph := NewProfileHandler(h.base, stub)
	h.e.GET("/profile", ph.Show)
	h.e.POST("/profile", ph.Update)
	return h
}

func TestProfileHandler_Show(t *testing.T) {
	rec := newProfileHarness(t, &stubProfileService{}).do(http.MethodGet, "/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatal("profile page must show the current email")
	}
}

func TestProfileHandler_Update(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		result    *ports.ProfileResult
		err       error
		wantFlash string
	}{
		{
			name:      "changes saved",
			form:      url.Values{"name": {"Alice Smith"}},
			result:    &ports.ProfileResult{Changed: []string{"name"}},
			wantFlash: "success|Profile updated successfully!",
		},
		{
			name:      "nothing changed",
			form:      url.Values{"name": {""}},
			result:    &ports.ProfileResult{},
			wantFlash: "info|No changes to update.",
		},
		{
			name:      "wrong current password",
			form:      url.Values{"current_password": {"nope"}, "new_password": {"newpass1"}, "confirm_password": {"newpass1"}},
			err:       domain.ErrInvalidCurrentPassword,
			wantFlash: "error|Current password is incorrect.",
		},
		{
			name:      "email in use",
			form:      url.Values{"email": {"sec@example.com"}},
			err:       domain.ErrEmailTaken,
			wantFlash: "error|This email is already in use by another account.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProfileService{
				updateFn: func(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
					if actor != resident {
						t.Fatalf("unexpected actor %+v", actor)
					}
					return tt.result, tt.err
				},
			}
			h := newProfileHarness(t, stub)

			expectRedirect(t, h.do(http.MethodPost, "/profile", tt.form), "/profile")
			if f := h.flash(); f != tt.wantFlash {
				t.Fatalf("unexpected flash: %q", f)
			}
		})
	}
}

func TestProfileHandler_Update_InvalidEmail(t *testing.T) {
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
			t.Fatal("Update must not be called for an invalid form")
			return nil, nil
		},
	}
	h := newProfileHarness(t, stub)

	expectRedirect(t, h.do(http.MethodPost, "/profile", url.Values{"email": {"not-an-email"}}), "/profile")
	if f := h.flash(); f != "error|Email must be a valid email address." {
		t.Fatalf("unexpected flash: %q", f)
	}
}

func TestProfileHandler_Update_PrefilledApartmentWithoutDigits(t *testing.T) {
	var got ports.ProfileInput
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
			got = in
			return &ports.ProfileResult{Changed: []string{"password"}}, nil
		},
	}
	h := newHarness(t, secretary)
	ph := NewProfileHandler(h.base, stub)
	h.e.POST("/profile", ph.Update)

	rec := h.do(http.MethodPost, "/profile", url.Values{
		"name":             {secretary.Name},
		"apartment":        {secretary.Apartment},
		"email":            {secretary.Email},
		"current_password": {"secretary123"},
		"new_password":     {"newsecret1"},
		"confirm_password": {"newsecret1"},
	})
	expectRedirect(t, rec, "/profile")
	if f := h.flash(); f != "success|Profile updated successfully!" {
		t.Fatalf("unexpected flash: %q", f)
	}
	if got.Apartment != "Office" || got.NewPassword != "newsecret1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestProfileHandler_Update_PartialPasswordReachesService(t *testing.T) {
	var got ports.ProfileInput
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
			got = in
			return nil, domain.ErrMissingPasswordFields
		},
	}
	h := newProfileHarness(t, stub)

	expectRedirect(t, h.do(http.MethodPost, "/profile", url.Values{"new_password": {"abc"}}), "/profile")
	if got.NewPassword != "abc" {
		t.Fatalf("expected the partial password to reach the service, got %+v", got)
	}
	if f := h.flash(); f != "error|Please fill all password fields to change your password." {
		t.Fatalf("unexpected flash: %q", f)
	}
}
