package models

import "time"

// RequestStatus is the lifecycle state of a friend request.
// Accepted and rejected are terminal; requests are never deleted.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// FriendRequest records one directed request between two users.
// At most one pending request may exist per ordered (from, to) pair.
type FriendRequest struct {
	ID          string        `json:"id"`
	FromUserID  string        `json:"from_user_id"`
	ToUserID    string        `json:"to_user_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// FriendRequestView pairs a pending request with its sender's record.
type FriendRequestView struct {
	Request FriendRequest `json:"request"`
	From    User          `json:"from"`
}
