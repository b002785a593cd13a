package store

import (
	"sync"

	"realtime-service/internal/models"
)

// CallStore owns call signaling records. Ending or rejecting a call deletes
// its record, so every stored call is either calling or active.
type CallStore interface {
	Put(call models.Call)
	Get(id string) (models.Call, error)
	AddParticipant(callID, userID string) (models.Call, error)
	SetStatus(callID string, status models.CallStatus) (models.Call, error)
	Delete(id string) (models.Call, error)
}

type callStore struct {
	mu    sync.RWMutex
	calls map[string]*models.Call
}

// NewCallStore creates an empty call store.
func NewCallStore() CallStore {
	return &callStore{calls: make(map[string]*models.Call)}
}

func (s *callStore) Put(call models.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := call
	s.calls[c.ID] = &c
}

func (s *callStore) Get(id string) (models.Call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	call, ok := s.calls[id]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	return copyCall(call), nil
}

func (s *callStore) AddParticipant(callID, userID string) (models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.calls[callID]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	if !call.HasParticipant(userID) {
		call.Participants = append(call.Participants, userID)
	}
	return copyCall(call), nil
}

func (s *callStore) SetStatus(callID string, status models.CallStatus) (models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.calls[callID]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	call.Status = status
	return copyCall(call), nil
}

func (s *callStore) Delete(id string) (models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call, ok := s.calls[id]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	delete(s.calls, id)
	return copyCall(call), nil
}

func copyCall(call *models.Call) models.Call {
	c := *call
	c.Participants = append([]string(nil), call.Participants...)
	return c
}
