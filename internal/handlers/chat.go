package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/service"
	"realtime-service/internal/store"
	"realtime-service/internal/telemetry"
)

// ChatHandler is the REST mirror of the chat and message operations, for
// clients without a live websocket connection.
type ChatHandler struct {
	chats  *service.ChatService
	router *service.MessageRouter
	audit  *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats *service.ChatService, router *service.MessageRouter, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{chats: chats, router: router, audit: audit}
}

// ListChats returns the chats the authenticated user belongs to.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetString("userID")
	c.JSON(http.StatusOK, gin.H{"chats": h.chats.Summaries(userID)})
}

// CreateChat creates a chat with an explicit participant set.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		ParticipantIDs []string `json:"participant_ids" binding:"required"`
		Name           string   `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		emitAudit(c, h.audit, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.chats.CreateChat(userID, req.ParticipantIDs, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrChatExists):
			c.JSON(http.StatusConflict, gin.H{"error": "chat already exists"})
		case errors.Is(err, store.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		}
		return
	}

	emitAudit(c, h.audit, "INFO", "chat created")
	c.JSON(http.StatusCreated, gin.H{"chat": summary})
}

// GetChatMessages returns the history and resets the unread counter.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	userID := c.GetString("userID")
	chatID := c.Param("chat_id")

	msgs, err := h.chats.History(userID, chatID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostChatMessage sends a message through the same router the gateway uses,
// fan-out included.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	userID := c.GetString("userID")
	chatID := c.Param("chat_id")

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		emitAudit(c, h.audit, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.router.SendMessage(userID, chatID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		case errors.Is(err, service.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "text required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}
