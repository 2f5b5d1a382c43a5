package handler

import "github.com/hyperlocal/community/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- HTML forms ---

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name            string `form:"name"             validate:"required,min=2,max=50"`
	Email           string `form:"email"            validate:"required,email"`
	Apartment       string `form:"apartment"        validate:"required,min=2,max=20,apartment"`
	Password        string `form:"password"         validate:"required,min=6,password"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

type serviceRequestForm struct {
	Title          string `form:"title"           validate:"required,min=5,max=200"`
	Description    string `form:"description"     validate:"required,min=10"`
	Category       string `form:"category"        validate:"required"`
	Priority       string `form:"priority"        validate:"required"`
	IdempotencyKey string `form:"idempotency_key" validate:"omitempty,max=64"`
}

type noticeForm struct {
	Title    string `form:"title"    validate:"required,min=5,max=200"`
	Content  string `form:"content"  validate:"required,min=10"`
	Priority string `form:"priority" validate:"required"`
}

type chatForm struct {
	Message string `form:"message"`
}

// profileForm fields are all optional; empty ones are left unchanged. The
// form is posted pre-filled, so the apartment is only length checked and
// password rules are applied by the profile service once all three password
// fields are present.
type profileForm struct {
	Name            string `form:"name"             validate:"omitempty,min=2,max=50"`
	Apartment       string `form:"apartment"        validate:"omitempty,max=20"`
	Email           string `form:"email"            validate:"omitempty,email"`
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

// --- JSON ---

type statusUpdateRequest struct {
	RequestID string `form:"request_id" json:"request_id" validate:"required"`
	Status    string `form:"status"     json:"status"     validate:"required,oneof=pending in_progress resolved cancelled"`
}

type statusUpdateResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
}

type tokenRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}
