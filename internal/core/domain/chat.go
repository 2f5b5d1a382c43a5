package domain

import "time"

// ChatMessage is one entry in the shared community chat. UserName and
// SenderRole are snapshots of the sender at posting time.
type ChatMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	SenderRole Role      `json:"sender_role"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *ChatMessage) OwnerID() string {
	return m.UserID
}

// FromSecretary reports whether the sender was a secretary when posting.
func (m *ChatMessage) FromSecretary() bool {
	return m.SenderRole == RoleSecretary
}
