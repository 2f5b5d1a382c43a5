package domain

import "time"

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusResolved   RequestStatus = "resolved"
	StatusCancelled  RequestStatus = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []RequestStatus{StatusPending, StatusInProgress, StatusResolved, StatusCancelled}

// forwardTransitions is the hardened, forward-only machine. It is only
// consulted when strict transitions are enabled.
var forwardTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusResolved, StatusCancelled},
}

func (s RequestStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the lifecycle in practice.
func (s RequestStatus) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// CanTransitionTo reports whether the forward-only machine allows moving
// from s to next. Staying in the same status is always allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range forwardTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Category classifies the kind of work a service request needs.
type Category string

const (
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryCarpentry  Category = "carpentry"
	CategoryCleaning   Category = "cleaning"
	CategorySecurity   Category = "security"
	CategoryOther      Category = "other"
)

var Categories = []Category{
	CategoryPlumbing, CategoryElectrical, CategoryCarpentry,
	CategoryCleaning, CategorySecurity, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ServiceRequest is a maintenance ticket raised by a resident.
//
// UserName and Apartment are snapshots taken at submission time and are not
// kept in sync with later profile edits.
type ServiceRequest struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       Category      `json:"category"`
	Priority       Priority      `json:"priority"`
	Status         RequestStatus `json:"status"`
	UserID         string        `json:"user_id"`
	UserName       string        `json:"user_name"`
	Apartment      string        `json:"apartment"`
	IdempotencyKey string        `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (r *ServiceRequest) OwnerID() string {
	return r.UserID
}
