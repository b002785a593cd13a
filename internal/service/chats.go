package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

// ChatService creates chats and builds per-user chat views.
type ChatService struct {
	users   store.UserStore
	chats   store.ChatStore
	emitter Emitter
	now     func() time.Time
}

// NewChatService constructs a ChatService.
func NewChatService(users store.UserStore, chats store.ChatStore, emitter Emitter) *ChatService {
	return &ChatService{users: users, chats: chats, emitter: emitter, now: time.Now}
}

// CreateChat creates a chat for the creator plus the given participants.
// The participant set is deduplicated; a chat with exactly the same set
// already existing fails with store.ErrChatExists.
func (s *ChatService) CreateChat(creatorID string, participantIDs []string, name string) (models.ChatSummary, error) {
	ids := append([]string{creatorID}, participantIDs...)
	for _, id := range ids {
		if _, err := s.users.Get(id); err != nil {
			return models.ChatSummary{}, err
		}
	}

	chat := store.NewChat(uuid.NewString(), name, ids, s.now())
	if chat.Name == "" {
		chat.Name = s.defaultChatName(creatorID, chat.Participants)
	}
	if err := s.chats.Create(chat); err != nil {
		return models.ChatSummary{}, err
	}

	summary := s.summarize(chat)
	event := models.ServerEvent{Type: models.EventChatCreated, Data: models.ChatCreatedPayload{Chat: summary}}
	for _, pid := range chat.Participants {
		s.emitter.ToUser(pid, event)
	}
	return summary, nil
}

// EnsurePrivateChat returns the existing chat between the two users or
// creates one seeded with a single greeting message authored by the initiator.
func (s *ChatService) EnsurePrivateChat(initiatorID, peerID string) (models.Chat, error) {
	if chat, ok := s.chats.FindByParticipants([]string{initiatorID, peerID}); ok {
		return chat, nil
	}

	now := s.now()
	chat := store.NewChat(uuid.NewString(), "", []string{initiatorID, peerID}, now)
	chat.Name = s.defaultChatName(initiatorID, chat.Participants)
	if err := s.chats.Create(chat); err != nil {
		return models.Chat{}, err
	}

	greeting := models.Message{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		SenderID:  initiatorID,
		Text:      "Hey! We are friends now 👋",
		Timestamp: now,
	}
	if err := s.chats.AppendMessage(chat.ID, greeting); err != nil {
		return models.Chat{}, err
	}

	chat, err := s.chats.Get(chat.ID)
	if err != nil {
		return models.Chat{}, err
	}
	event := models.ServerEvent{Type: models.EventChatCreated, Data: models.ChatCreatedPayload{Chat: s.summarize(chat)}}
	s.emitter.ToUser(initiatorID, event)
	s.emitter.ToUser(peerID, event)
	return chat, nil
}

// Summaries lists the chats the user belongs to, most recently updated first
// preserved in creation order.
func (s *ChatService) Summaries(userID string) []models.ChatSummary {
	chats := s.chats.ChatsFor(userID)
	summaries := make([]models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, s.summarize(chat))
	}
	return summaries
}

// History returns the message history and resets the unread counter, per the
// read path contract. The caller must be a participant.
func (s *ChatService) History(userID, chatID string) ([]models.Message, error) {
	chat, err := s.chats.Get(chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	msgs, err := s.chats.Messages(chatID)
	if err != nil {
		return nil, err
	}
	if err := s.chats.MarkRead(chatID); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *ChatService) summarize(chat models.Chat) models.ChatSummary {
	return models.ChatSummary{
		ChatID:       chat.ID,
		Name:         chat.Name,
		Type:         chat.Type,
		Participants: s.users.GetMany(chat.Participants),
		LastMessage:  chat.LastMessage,
		UnreadCount:  chat.UnreadCount,
		UpdatedAt:    chat.UpdatedAt,
	}
}

func (s *ChatService) defaultChatName(creatorID string, participantIDs []string) string {
	var names []string
	for _, user := range s.users.GetMany(participantIDs) {
		if user.ID == creatorID {
			continue
		}
		names = append(names, user.Name)
	}
	return strings.Join(names, ", ")
}
