package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hyperlocal/community/internal/api/metrics"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

type AuthHandler struct {
	*Base
	authService ports.AuthService
	tokenTTL    time.Duration
}

func NewAuthHandler(base *Base, authService ports.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{Base: base, authService: authService, tokenTTL: tokenTTL}
}

// Index sends signed-in users to their home page and shows the landing page
// to everyone else.
func (h *AuthHandler) Index(c echo.Context) error {
	if u := currentUser(c); u != nil {
		return h.redirect(c, homePath(u))
	}
	return h.render(c, "index", "Welcome", nil)
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.render(c, "login", "Login", nil)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.flashRedirect(c, "Invalid email or password.", session.FlashError, "/login")
	}
	if err := c.Validate(&form); err != nil {
		return h.flashRedirect(c, err.Error(), session.FlashError, "/login")
	}

	ctx := c.Request().Context()
	user, err := h.authService.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("web", "failure").Inc()
			return h.flashRedirect(c, "Invalid email or password.", session.FlashError, "/login")
		}
		return h.flashError(c, err, "/login")
	}

	if err := session.Login(ctx, h.sessions, user.ID); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("web", "success").Inc()

	msg := "Successfully logged in as Resident!"
	if user.IsSecretary() {
		msg = "Successfully logged in as Secretary!"
	}
	return h.flashRedirect(c, msg, session.FlashSuccess, homePath(user))
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.render(c, "register", "Register", nil)
}

// Register handles POST /register. Only residents can sign up.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return h.flashRedirect(c, "Invalid registration form.", session.FlashError, "/register")
	}
	if form.Password != form.ConfirmPassword {
		return h.flashRedirect(c, "Passwords do not match.", session.FlashError, "/register")
	}
	if err := c.Validate(&form); err != nil {
		return h.flashRedirect(c, err.Error(), session.FlashError, "/register")
	}

	_, err := h.authService.RegisterResident(c.Request().Context(), ports.RegisterInput{
		Name:            form.Name,
		Email:           form.Email,
		Apartment:       form.Apartment,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return h.flashRedirect(c, "Email already registered.", session.FlashError, "/register")
	case errors.Is(err, domain.ErrPasswordMismatch):
		return h.flashRedirect(c, "Passwords do not match.", session.FlashError, "/register")
	case err != nil:
		return h.flashError(c, err, "/register")
	}

	metrics.RegistrationsTotal.Inc()
	return h.flashRedirect(c, "Registration successful! Please login.", session.FlashSuccess, "/login")
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := session.Logout(c.Request().Context(), h.sessions); err != nil {
		return err
	}
	return h.flashRedirect(c, "Successfully logged out!", session.FlashSuccess, "/")
}

// Token exchanges credentials for a bearer token.
//
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("api", "failure").Inc()
		}
		return err
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("api", "success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokenTTL.Seconds()),
		User:      user,
	})
}
