package store

import (
	"sync"
	"time"

	"realtime-service/internal/models"
)

// FriendStore owns the symmetric friendship relation and the friend request
// records. Edge symmetry is an internal invariant: AddEdge and RemoveEdge
// always touch both directions under one lock.
type FriendStore interface {
	AddEdge(a, b string)
	RemoveEdge(a, b string)
	AreFriends(a, b string) bool
	FriendsOf(userID string) []string

	CreateRequest(req models.FriendRequest)
	CreateRequestIfNoPending(req models.FriendRequest) error
	GetRequest(id string) (models.FriendRequest, error)
	HasPending(from, to string) bool
	PendingFor(userID string) []models.FriendRequest
	SetRequestStatus(id string, status models.RequestStatus, respondedAt time.Time) error
}

type friendStore struct {
	mu       sync.RWMutex
	edges    map[string]map[string]struct{}
	requests map[string]models.FriendRequest
	order    []string
}

// NewFriendStore creates an empty friend store.
func NewFriendStore() FriendStore {
	return &friendStore{
		edges:    make(map[string]map[string]struct{}),
		requests: make(map[string]models.FriendRequest),
	}
}

func (s *friendStore) AddEdge(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addDirected(a, b)
	s.addDirected(b, a)
}

func (s *friendStore) addDirected(from, to string) {
	if _, ok := s.edges[from]; !ok {
		s.edges[from] = make(map[string]struct{})
	}
	s.edges[from][to] = struct{}{}
}

func (s *friendStore) RemoveEdge(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges[a], b)
	delete(s.edges[b], a)
}

func (s *friendStore) AreFriends(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edges[a][b]
	return ok
}

func (s *friendStore) FriendsOf(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	friends := make([]string, 0, len(s.edges[userID]))
	for id := range s.edges[userID] {
		friends = append(friends, id)
	}
	return friends
}

func (s *friendStore) CreateRequest(req models.FriendRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		s.order = append(s.order, req.ID)
	}
	s.requests[req.ID] = req
}

// CreateRequestIfNoPending inserts the request unless a pending one already
// exists between the two users in either direction. Check and insert happen
// under one lock, so concurrent senders cannot both get through.
func (s *friendStore) CreateRequestIfNoPending(req models.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.Status != models.RequestPending {
			continue
		}
		if (existing.FromUserID == req.FromUserID && existing.ToUserID == req.ToUserID) ||
			(existing.FromUserID == req.ToUserID && existing.ToUserID == req.FromUserID) {
			return ErrRequestExists
		}
	}
	if _, ok := s.requests[req.ID]; !ok {
		s.order = append(s.order, req.ID)
	}
	s.requests[req.ID] = req
	return nil
}

func (s *friendStore) GetRequest(id string) (models.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	return req, nil
}

func (s *friendStore) HasPending(from, to string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, req := range s.requests {
		if req.FromUserID == from && req.ToUserID == to && req.Status == models.RequestPending {
			return true
		}
	}
	return false
}

func (s *friendStore) PendingFor(userID string) []models.FriendRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []models.FriendRequest
	for _, id := range s.order {
		req := s.requests[id]
		if req.ToUserID == userID && req.Status == models.RequestPending {
			pending = append(pending, req)
		}
	}
	return pending
}

func (s *friendStore) SetRequestStatus(id string, status models.RequestStatus, respondedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	req.Status = status
	req.RespondedAt = &respondedAt
	s.requests[id] = req
	return nil
}
