package models

import "time"

// CallStatus is the signaling state of a call. There is no stored "ended"
// state: ending or rejecting a call deletes its record.
type CallStatus string

const (
	CallCalling CallStatus = "calling"
	CallActive  CallStatus = "active"
)

// Call is the signaling record for one voice/video call, layered over a chat.
// Participants starts as [CallerID] and grows as callees accept.
type Call struct {
	ID           string     `json:"id"`
	ChatID       string     `json:"chat_id"`
	CallerID     string     `json:"caller_id"`
	Type         string     `json:"type"`
	Participants []string   `json:"participants"`
	Status       CallStatus `json:"status"`
	StartTime    time.Time  `json:"start_time"`
}

// HasParticipant reports whether the user is recorded on the call.
func (c Call) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
