package store

import (
	"strings"
	"sync"
	"time"

	"realtime-service/internal/models"
)

// UserStore owns user records. Creation belongs to the registration
// collaborator; presence fields are mutated only through SetPresence.
type UserStore interface {
	Put(user models.User)
	Get(id string) (models.User, error)
	FindByEmail(email string) (models.User, error)
	GetMany(ids []string) []models.User
	Search(query string) []models.User
	SetPresence(id string, status models.UserStatus, lastSeen time.Time) error
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

// NewUserStore creates an empty user store.
func NewUserStore() UserStore {
	return &userStore{users: make(map[string]models.User)}
}

func (s *userStore) Put(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		s.order = append(s.order, user.ID)
	}
	s.users[user.ID] = user
}

func (s *userStore) Get(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *userStore) FindByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if strings.EqualFold(s.users[id].Email, email) {
			return s.users[id], nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (s *userStore) GetMany(ids []string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			result = append(result, user)
		}
	}
	return result
}

func (s *userStore) Search(query string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))
	var result []models.User
	for _, id := range s.order {
		user := s.users[id]
		if query == "" ||
			strings.Contains(strings.ToLower(user.Name), query) ||
			strings.Contains(strings.ToLower(user.Email), query) {
			result = append(result, user)
		}
	}
	return result
}

func (s *userStore) SetPresence(id string, status models.UserStatus, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Status = status
	user.LastSeen = lastSeen
	s.users[id] = user
	return nil
}
