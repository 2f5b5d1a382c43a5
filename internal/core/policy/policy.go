// Package policy decides whether a user may perform an action on a
// resource. Every function here is pure: no I/O, no clock, no globals.
package policy

import "github.com/hyperlocal/community/internal/core/domain"

// Action is something a caller asks to do.
type Action string

const (
	ReadNotices         Action = "notice:read"
	PostNotice          Action = "notice:post"
	DeleteNotice        Action = "notice:delete"
	SubmitRequest       Action = "request:submit"
	ReadRequest         Action = "request:read"
	ListAllRequests     Action = "request:list_all"
	SetRequestStatus    Action = "request:set_status"
	ReadChat            Action = "chat:read"
	PostChat            Action = "chat:post"
	DeleteChat          Action = "chat:delete"
	ReadProfile         Action = "profile:read"
	UpdateProfile       Action = "profile:update"
	ListResidents       Action = "user:list_residents"
	ViewDashboardCounts Action = "dashboard:counts"
)

// Target is a resource with an owning user. ServiceRequest, ChatMessage and
// User implement it.
type Target interface {
	OwnerID() string
}

// CanPerform reports whether actor may perform action on target. target may
// be nil for actions that do not address a single record.
func CanPerform(actor *domain.User, action Action, target Target) bool {
	if actor == nil || actor.ID == "" {
		return false
	}

	switch actor.Role {
	case domain.RoleSecretary:
		return secretaryCan(actor, action, target)
	case domain.RoleResident, domain.RoleAdmin:
		return residentCan(actor, action, target)
	default:
		return false
	}
}

// Authorize is CanPerform expressed as an error: ErrUnauthenticated for a
// missing actor, ErrAccessDenied for a refusal.
func Authorize(actor *domain.User, action Action, target Target) error {
	if actor == nil || actor.ID == "" {
		return domain.ErrUnauthenticated
	}
	if !CanPerform(actor, action, target) {
		return domain.ErrAccessDenied
	}
	return nil
}

func secretaryCan(actor *domain.User, action Action, target Target) bool {
	switch action {
	case ReadNotices, PostNotice, DeleteNotice,
		SubmitRequest, ReadRequest, ListAllRequests, SetRequestStatus,
		ReadChat, PostChat, DeleteChat,
		ListResidents, ViewDashboardCounts:
		return true
	case ReadProfile, UpdateProfile:
		return self(actor, target)
	}
	return false
}

func residentCan(actor *domain.User, action Action, target Target) bool {
	switch action {
	case ReadNotices, SubmitRequest, ReadChat, PostChat:
		return true
	case ReadRequest, DeleteChat:
		return target != nil && target.OwnerID() == actor.ID
	case ReadProfile, UpdateProfile:
		return self(actor, target)
	case PostNotice, DeleteNotice, ListAllRequests, SetRequestStatus,
		ListResidents, ViewDashboardCounts:
		return false
	}
	return false
}

// self treats a nil target as the actor's own record, which is how the
// profile routes address it.
func self(actor *domain.User, target Target) bool {
	if target == nil {
		return true
	}
	return target.OwnerID() == actor.ID
}
