package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

// FriendService runs the friend-request workflow and mutates the friend graph.
type FriendService struct {
	users    store.UserStore
	friends  store.FriendStore
	sessions store.SessionRegistry
	chats    *ChatService
	emitter  Emitter
	now      func() time.Time
}

// NewFriendService constructs a FriendService.
func NewFriendService(users store.UserStore, friends store.FriendStore, sessions store.SessionRegistry, chats *ChatService, emitter Emitter) *FriendService {
	return &FriendService{
		users:    users,
		friends:  friends,
		sessions: sessions,
		chats:    chats,
		emitter:  emitter,
		now:      time.Now,
	}
}

// SendRequest creates a pending request from one user to another and notifies
// the recipient when connected.
func (s *FriendService) SendRequest(fromID, toID string) (models.FriendRequest, error) {
	if fromID == toID {
		return models.FriendRequest{}, ErrSelfRequest
	}
	from, err := s.users.Get(fromID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if _, err := s.users.Get(toID); err != nil {
		return models.FriendRequest{}, err
	}
	if s.friends.AreFriends(fromID, toID) {
		return models.FriendRequest{}, ErrAlreadyFriends
	}

	req := models.FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.RequestPending,
		CreatedAt:  s.now(),
	}
	// A pending request in either direction blocks a new one: accepting the
	// reverse request would make the pair friends anyway.
	if err := s.friends.CreateRequestIfNoPending(req); err != nil {
		return models.FriendRequest{}, ErrDuplicateRequest
	}

	s.emitter.ToUser(toID, models.ServerEvent{
		Type: models.EventFriendRequest,
		Data: models.FriendRequestView{Request: req, From: from},
	})
	return req, nil
}

// AcceptRequest marks the pending request accepted, inserts the symmetric
// friend edge, notifies the sender and creates or reuses the private chat.
func (s *FriendService) AcceptRequest(requestID, actingUserID string) (models.FriendRequest, error) {
	req, err := s.pendingAddressedTo(requestID, actingUserID)
	if err != nil {
		return models.FriendRequest{}, err
	}

	respondedAt := s.now()
	if err := s.friends.SetRequestStatus(req.ID, models.RequestAccepted, respondedAt); err != nil {
		return models.FriendRequest{}, err
	}
	req.Status = models.RequestAccepted
	req.RespondedAt = &respondedAt

	s.friends.AddEdge(actingUserID, req.FromUserID)

	if acceptor, err := s.users.Get(actingUserID); err == nil {
		s.emitter.ToUser(req.FromUserID, models.ServerEvent{
			Type: models.EventFriendRequestAccepted,
			Data: models.FriendRequestView{Request: req, From: acceptor},
		})
	}

	// The chat is seeded by the request sender, not the acceptor.
	if _, err := s.chats.EnsurePrivateChat(req.FromUserID, actingUserID); err != nil {
		slog.Error("private chat after accept", "request_id", req.ID, "error", err)
	}
	return req, nil
}

// RejectRequest flips the pending request to rejected. No notification is sent.
func (s *FriendService) RejectRequest(requestID, actingUserID string) error {
	req, err := s.pendingAddressedTo(requestID, actingUserID)
	if err != nil {
		return err
	}
	return s.friends.SetRequestStatus(req.ID, models.RequestRejected, s.now())
}

func (s *FriendService) pendingAddressedTo(requestID, actingUserID string) (models.FriendRequest, error) {
	req, err := s.friends.GetRequest(requestID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.ToUserID != actingUserID || req.Status != models.RequestPending {
		return models.FriendRequest{}, store.ErrRequestNotFound
	}
	return req, nil
}

// RemoveFriend deletes both directions of the edge. Removing a non-existent
// friendship is a no-op; existing chats are left intact.
func (s *FriendService) RemoveFriend(userID, friendID string) {
	s.friends.RemoveEdge(userID, friendID)
}

// FriendsOf lists a user's friends with their presence derived from live
// sessions rather than the stored status field.
func (s *FriendService) FriendsOf(userID string) []models.User {
	friends := s.users.GetMany(s.friends.FriendsOf(userID))
	for i := range friends {
		if s.sessions.IsOnline(friends[i].ID) {
			friends[i].Status = models.StatusOnline
		} else {
			friends[i].Status = models.StatusOffline
		}
	}
	return friends
}

// PendingRequests lists pending requests addressed to the user, each paired
// with the sender's record.
func (s *FriendService) PendingRequests(userID string) []models.FriendRequestView {
	pending := s.friends.PendingFor(userID)
	views := make([]models.FriendRequestView, 0, len(pending))
	for _, req := range pending {
		from, err := s.users.Get(req.FromUserID)
		if err != nil {
			continue
		}
		views = append(views, models.FriendRequestView{Request: req, From: from})
	}
	return views
}
