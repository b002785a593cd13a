package ws

import "time"

// ConnInfo identifies one websocket connection for logging and eventing.
// The user owning the connection lives in the session registry, not here.
type ConnInfo struct {
	ConnID      string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
