package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/api/middleware"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
	"github.com/hyperlocal/community/internal/view"
)

var (
	resident  = &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Apartment: "4B", Role: domain.RoleResident}
	secretary = &domain.User{ID: "s1", Name: "Sam", Email: "sec@example.com", Apartment: "Office", Role: domain.RoleSecretary}
)

// harness serves handlers behind real sessions and the real renderer, and
// replays the session cookie across requests like a browser would.
type harness struct {
	t       *testing.T
	e       *echo.Echo
	sm      *scs.SessionManager
	base    *Base
	cookies []*http.Cookie
}

func newHarness(t *testing.T, user *domain.User) *harness {
	t.Helper()

	renderer, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	sm := session.New(memstore.New(), session.Options{})
	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = renderer
	e.Use(session.Middleware(sm))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				middleware.SetUser(c, user)
			}
			return next(c)
		}
	})

	// Reads and clears the pending flash.
	e.GET("/_flash", func(c echo.Context) error {
		f := session.PopFlash(c.Request().Context(), sm)
		if f == nil {
			return c.String(http.StatusOK, "")
		}
		return c.String(http.StatusOK, f.Type+"|"+f.Message)
	})
	e.GET("/_session", func(c echo.Context) error {
		return c.String(http.StatusOK, session.UserID(c.Request().Context(), sm))
	})

	return &harness{t: t, e: e, sm: sm, base: NewBase(sm, "Community Hub", zerolog.Nop())}
}

func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range h.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		h.cookies = cs
	}
	return rec
}

// flash returns "type|message" for the pending flash, or "".
func (h *harness) flash() string {
	h.t.Helper()
	return h.do(http.MethodGet, "/_flash", nil).Body.String()
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

// --- stub services ---

type stubAuthService struct {
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) RegisterResident(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) IssueToken(user *domain.User) (string, error) {
	return "token-for-" + user.ID, nil
}

func (s *stubAuthService) ParseToken(token string) (string, error) {
	return strings.TrimPrefix(token, "token-for-"), nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type stubRequestService struct {
	submitFn    func(ctx context.Context, actor *domain.User, in ports.SubmitRequestInput) (*ports.SubmitResult, error)
	listFn      func(ctx context.Context, actor *domain.User) ([]*domain.ServiceRequest, error)
	setStatusFn func(ctx context.Context, actor *domain.User, id, status string) (*domain.ServiceRequest, error)
}

func (s *stubRequestService) Submit(ctx context.Context, actor *domain.User, in ports.SubmitRequestInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, actor, in)
}

func (s *stubRequestService) Get(ctx context.Context, actor *domain.User, id string) (*domain.ServiceRequest, error) {
	return nil, domain.ErrRequestNotFound
}

func (s *stubRequestService) ListForActor(ctx context.Context, actor *domain.User) ([]*domain.ServiceRequest, error) {
	return s.listFn(ctx, actor)
}

func (s *stubRequestService) SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.ServiceRequest, error) {
	return s.setStatusFn(ctx, actor, id, status)
}

type stubChatService struct {
	postFn    func(ctx context.Context, actor *domain.User, content string) (*domain.ChatMessage, error)
	historyFn func(ctx context.Context, actor *domain.User, n int) ([]*domain.ChatMessage, error)
	deleteFn  func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubChatService) Post(ctx context.Context, actor *domain.User, content string) (*domain.ChatMessage, error) {
	return s.postFn(ctx, actor, content)
}

func (s *stubChatService) History(ctx context.Context, actor *domain.User, n int) ([]*domain.ChatMessage, error) {
	return s.historyFn(ctx, actor, n)
}

func (s *stubChatService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubNoticeService struct {
	postFn   func(ctx context.Context, actor *domain.User, in ports.PostNoticeInput) (*domain.Notice, error)
	listFn   func(ctx context.Context, actor *domain.User, limit int) ([]*domain.Notice, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubNoticeService) Post(ctx context.Context, actor *domain.User, in ports.PostNoticeInput) (*domain.Notice, error) {
	return s.postFn(ctx, actor, in)
}

func (s *stubNoticeService) List(ctx context.Context, actor *domain.User, limit int) ([]*domain.Notice, error) {
	return s.listFn(ctx, actor, limit)
}

func (s *stubNoticeService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubProfileService struct {
	updateFn func(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error)
}

func (s *stubProfileService) Update(ctx context.Context, actor *domain.User, in ports.ProfileInput) (*ports.ProfileResult, error) {
	return s.updateFn(ctx, actor, in)
}

type stubDashboardService struct {
	residentFn func(ctx context.Context, actor *domain.User) (*ports.ResidentDashboard, error)
}

func (s *stubDashboardService) Resident(ctx context.Context, actor *domain.User) (*ports.ResidentDashboard, error) {
	return s.residentFn(ctx, actor)
}

func (s *stubDashboardService) Secretary(ctx context.Context, actor *domain.User) (*ports.SecretaryDashboard, error) {
	return &ports.SecretaryDashboard{}, nil
}

func (s *stubDashboardService) Counts(ctx context.Context) (ports.DashboardCounts, error) {
	return ports.DashboardCounts{}, nil
}

func (s *stubDashboardService) Residents(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return nil, nil
}
