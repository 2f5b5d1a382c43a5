package view

import "github.com/hyperlocal/community/internal/core/domain"

// Flash is the one-shot message shown at the top of a page.
type Flash struct {
	Message string
	Type    string
}

// Page is the value every template is executed with.
type Page struct {
	AppName     string
	Title       string
	CurrentUser *domain.User
	Flash       *Flash
	Catalog     domain.Catalog
	Data        any
}

// IsSecretary reports whether the page is rendered for a secretary.
func (p Page) IsSecretary() bool {
	return p.CurrentUser != nil && p.CurrentUser.IsSecretary()
}

// ServiceRequestsData backs the resident service request page.
type ServiceRequestsData struct {
	Requests       []*domain.ServiceRequest
	IdempotencyKey string
}

// ChatData backs the chat page.
type ChatData struct {
	Messages  []*domain.ChatMessage
	MaxLength int
}
