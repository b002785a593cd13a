package service

import (
	"log/slog"
	"time"

	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

// PresenceService derives online/offline status from the session registry and
// notifies a user's friends when it changes.
type PresenceService struct {
	users    store.UserStore
	friends  store.FriendStore
	sessions store.SessionRegistry
	emitter  Emitter
	now      func() time.Time
}

// NewPresenceService constructs a PresenceService.
func NewPresenceService(users store.UserStore, friends store.FriendStore, sessions store.SessionRegistry, emitter Emitter) *PresenceService {
	return &PresenceService{
		users:    users,
		friends:  friends,
		sessions: sessions,
		emitter:  emitter,
		now:      time.Now,
	}
}

// HandleOnline records the online transition and fans it out to connected friends.
func (s *PresenceService) HandleOnline(userID string) {
	s.transition(userID, models.StatusOnline)
}

// HandleOffline records the offline transition and fans it out to connected friends.
func (s *PresenceService) HandleOffline(userID string) {
	s.transition(userID, models.StatusOffline)
}

func (s *PresenceService) transition(userID string, status models.UserStatus) {
	seen := s.now()
	if err := s.users.SetPresence(userID, status, seen); err != nil {
		slog.Warn("presence update for unknown user", "user_id", userID)
		return
	}

	event := models.ServerEvent{
		Type: models.EventFriendStatusChanged,
		Data: models.FriendStatusPayload{UserID: userID, Status: status, LastSeen: seen},
	}
	for _, friendID := range s.friends.FriendsOf(userID) {
		s.emitter.ToUser(friendID, event)
	}
}

// IsOnline reports live connectivity; it never consults the stored status.
func (s *PresenceService) IsOnline(userID string) bool {
	return s.sessions.IsOnline(userID)
}
