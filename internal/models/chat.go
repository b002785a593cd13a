package models

import "time"

// ChatType distinguishes two-party chats from group chats.
type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
)

// Chat holds membership, bounded message history and the unread counter.
// Participants are unique and keep insertion order.
type Chat struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         ChatType  `json:"type"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
	LastMessage  *Message  `json:"last_message,omitempty"`
	UnreadCount  int       `json:"unread_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsParticipant reports whether the user belongs to the chat.
func (c Chat) IsParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// ChatSummary provides an API-friendly view of a chat for a user.
type ChatSummary struct {
	ChatID       string    `json:"chat_id"`
	Name         string    `json:"name"`
	Type         ChatType  `json:"type"`
	Participants []User    `json:"participants"`
	LastMessage  *Message  `json:"last_message,omitempty"`
	UnreadCount  int       `json:"unread_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}
