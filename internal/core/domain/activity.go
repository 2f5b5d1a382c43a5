package domain

import "time"

// ActivityKind names an auditable action.
type ActivityKind string

const (
	ActivityUserRegistered       ActivityKind = "user_registered"
	ActivityProfileUpdated       ActivityKind = "profile_updated"
	ActivityRequestSubmitted     ActivityKind = "request_submitted"
	ActivityRequestStatusChanged ActivityKind = "request_status_changed"
	ActivityNoticePosted         ActivityKind = "notice_posted"
	ActivityNoticeDeleted        ActivityKind = "notice_deleted"
	ActivityMessageDeleted       ActivityKind = "message_deleted"
)

// ActivityEvent is an append-only audit record of something a user did.
type ActivityEvent struct {
	Kind      ActivityKind `json:"kind"`
	ActorID   string       `json:"actor_id"`
	ActorRole Role         `json:"actor_role"`
	EntityID  string       `json:"entity_id"`
	Detail    string       `json:"detail,omitempty"`
	At        time.Time    `json:"at"`
}

// NewActivity stamps an event for actor at the current time.
func NewActivity(kind ActivityKind, actor *User, entityID, detail string) ActivityEvent {
	ev := ActivityEvent{
		Kind:     kind,
		EntityID: entityID,
		Detail:   detail,
		At:       time.Now().UTC(),
	}
	if actor != nil {
		ev.ActorID = actor.ID
		ev.ActorRole = actor.Role
	}
	return ev
}
