package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"realtime-service/internal/models"
	"realtime-service/internal/store"
)

// MessageRouter validates and fans out chat messages. Participants with a
// live connection get the message immediately; the chat's unread counter
// grows by one per unreachable participant. The sender never receives an
// echo: it already holds the message client-side.
type MessageRouter struct {
	chats   store.ChatStore
	emitter Emitter
	now     func() time.Time
}

// NewMessageRouter constructs a MessageRouter.
func NewMessageRouter(chats store.ChatStore, emitter Emitter) *MessageRouter {
	return &MessageRouter{chats: chats, emitter: emitter, now: time.Now}
}

// SendMessage appends the message and delivers it to the other participants.
func (r *MessageRouter) SendMessage(senderID, chatID, text string) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	chat, err := r.chats.Get(chatID)
	if err != nil {
		return models.Message{}, err
	}
	if !chat.IsParticipant(senderID) {
		return models.Message{}, ErrNotParticipant
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: r.now(),
	}
	if err := r.chats.AppendMessage(chatID, msg); err != nil {
		return models.Message{}, err
	}

	event := models.ServerEvent{
		Type: models.EventNewMessage,
		Data: models.NewMessagePayload{ChatID: chatID, Message: msg},
	}
	for _, pid := range chat.Participants {
		if pid == senderID {
			continue
		}
		if !r.emitter.ToUser(pid, event) {
			_ = r.chats.IncrementUnread(chatID, 1)
		}
	}
	return msg, nil
}
