package service

import "realtime-service/internal/models"

// Emitter delivers server events to live connections. Delivery to a user
// without a live connection is not an error; ToUser reports it so callers can
// take the unreachable-recipient branch (unread counters, skipped fan-out).
type Emitter interface {
	ToConn(connID string, event models.ServerEvent)
	ToUser(userID string, event models.ServerEvent) bool
}
