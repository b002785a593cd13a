package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"realtime-service/internal/models"
)

// History is append-only and bounded: once an append pushes a chat past
// maxHistory messages, the list is compacted to the keepRecent most recent.
const (
	maxHistory = 1000
	keepRecent = 100
)

// ChatStore owns chat and message records. Chats are deduplicated by
// participant-set equality regardless of ordering.
type ChatStore interface {
	Create(chat models.Chat) error
	Get(id string) (models.Chat, error)
	FindByParticipants(participantIDs []string) (models.Chat, bool)
	ChatsFor(userID string) []models.Chat
	AppendMessage(chatID string, msg models.Message) error
	Messages(chatID string) ([]models.Message, error)
	MarkRead(chatID string) error
	IncrementUnread(chatID string, by int) error
}

type chatStore struct {
	mu     sync.RWMutex
	chats  map[string]*models.Chat
	bySet  map[string]string
	order  []string
}

// NewChatStore creates an empty chat store.
func NewChatStore() ChatStore {
	return &chatStore{
		chats: make(map[string]*models.Chat),
		bySet: make(map[string]string),
	}
}

// participantSetKey is the single dedup key for chats: the sorted unique
// participant ids joined together.
func participantSetKey(ids []string) string {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return strings.Join(unique, "|")
}

func (s *chatStore) Create(chat models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := participantSetKey(chat.Participants)
	if _, ok := s.bySet[key]; ok {
		return ErrChatExists
	}
	c := chat
	s.chats[c.ID] = &c
	s.bySet[key] = c.ID
	s.order = append(s.order, c.ID)
	return nil
}

func (s *chatStore) Get(id string) (models.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[id]
	if !ok {
		return models.Chat{}, ErrChatNotFound
	}
	return copyChat(chat), nil
}

func (s *chatStore) FindByParticipants(participantIDs []string) (models.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySet[participantSetKey(participantIDs)]
	if !ok {
		return models.Chat{}, false
	}
	return copyChat(s.chats[id]), true
}

func (s *chatStore) ChatsFor(userID string) []models.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Chat
	for _, id := range s.order {
		chat := s.chats[id]
		if chat.IsParticipant(userID) {
			result = append(result, copyChat(chat))
		}
	}
	return result
}

func (s *chatStore) AppendMessage(chatID string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, msg)
	if len(chat.Messages) > maxHistory {
		recent := chat.Messages[len(chat.Messages)-keepRecent:]
		chat.Messages = append([]models.Message(nil), recent...)
	}
	last := msg
	chat.LastMessage = &last
	chat.UpdatedAt = msg.Timestamp
	return nil
}

func (s *chatStore) Messages(chatID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	return append([]models.Message(nil), chat.Messages...), nil
}

func (s *chatStore) MarkRead(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.UnreadCount = 0
	return nil
}

func (s *chatStore) IncrementUnread(chatID string, by int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.UnreadCount += by
	return nil
}

func copyChat(chat *models.Chat) models.Chat {
	c := *chat
	c.Participants = append([]string(nil), chat.Participants...)
	c.Messages = append([]models.Message(nil), chat.Messages...)
	if chat.LastMessage != nil {
		last := *chat.LastMessage
		c.LastMessage = &last
	}
	return c
}

// NewChat assembles a chat record with dedup-ready participants and a derived
// type: group when more than two members remain after deduplication.
func NewChat(id, name string, participantIDs []string, now time.Time) models.Chat {
	unique := make([]string, 0, len(participantIDs))
	seen := make(map[string]struct{}, len(participantIDs))
	for _, pid := range participantIDs {
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		unique = append(unique, pid)
	}
	chatType := models.ChatPrivate
	if len(unique) > 2 {
		chatType = models.ChatGroup
	}
	return models.Chat{
		ID:           id,
		Name:         name,
		Type:         chatType,
		Participants: unique,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
