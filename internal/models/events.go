package models

import "time"

// Inbound event names accepted by the websocket gateway.
const (
	EventAuthenticate = "authenticate"
	EventSendMessage  = "send_message"
	EventStartCall    = "start_call"
	EventAcceptCall   = "accept_call"
	EventRejectCall   = "reject_call"
	EventEndCall      = "end_call"
)

// Outbound event names emitted by the gateway and the service layer.
const (
	EventAuthenticated         = "authenticated"
	EventAuthError             = "auth_error"
	EventOperationFailed       = "operation_failed"
	EventFriendsList           = "friends_list"
	EventFriendRequests        = "friend_requests"
	EventChatsList             = "chats_list"
	EventChatCreated           = "chat_created"
	EventFriendRequest         = "friend_request"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendStatusChanged   = "friend_status_changed"
	EventNewMessage            = "new_message"
	EventIncomingCall          = "incoming_call"
	EventCallStarted           = "call_started"
	EventCallAccepted          = "call_accepted"
	EventCallRejected          = "call_rejected"
	EventCallEnded             = "call_ended"
)

// ClientEvent is the closed set of tagged inbound events. The gateway
// validates the fields required by each Type before dispatching.
type ClientEvent struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
	Text     string `json:"text,omitempty"`
	CallID   string `json:"call_id,omitempty"`
	CallType string `json:"call_type,omitempty"`
}

// ServerEvent is broadcast through websockets.
type ServerEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type AuthenticatedPayload struct {
	User User `json:"user"`
}

type AuthErrorPayload struct {
	Error string `json:"error"`
}

type OperationFailedPayload struct {
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

type FriendStatusPayload struct {
	UserID   string     `json:"user_id"`
	Status   UserStatus `json:"status"`
	LastSeen time.Time  `json:"last_seen"`
}

type NewMessagePayload struct {
	ChatID  string  `json:"chat_id"`
	Message Message `json:"message"`
}

type ChatCreatedPayload struct {
	Chat ChatSummary `json:"chat"`
}

type IncomingCallPayload struct {
	CallID   string `json:"call_id"`
	ChatID   string `json:"chat_id"`
	Caller   User   `json:"caller"`
	CallType string `json:"call_type"`
}

type CallStartedPayload struct {
	CallID string `json:"call_id"`
	Call   Call   `json:"call"`
}

type CallAcceptedPayload struct {
	CallID string `json:"call_id"`
	UserID string `json:"user_id"`
	Call   Call   `json:"call"`
}

type CallRejectedPayload struct {
	CallID string `json:"call_id"`
}

type CallEndedPayload struct {
	CallID   string `json:"call_id"`
	Duration int64  `json:"duration"`
}
