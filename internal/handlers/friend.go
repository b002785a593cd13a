package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/service"
	"realtime-service/internal/store"
	"realtime-service/internal/telemetry"
)

// FriendHandler is the REST mirror of the friend-request workflow.
type FriendHandler struct {
	friends *service.FriendService
	users   store.UserStore
	audit   *telemetry.AuditEmitter
}

// NewFriendHandler constructs a FriendHandler.
func NewFriendHandler(friends *service.FriendService, users store.UserStore, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{friends: friends, users: users, audit: audit}
}

// ListFriends returns the user's friends with presence derived from live sessions.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetString("userID")
	c.JSON(http.StatusOK, gin.H{"friends": h.friends.FriendsOf(userID)})
}

// ListRequests returns pending requests addressed to the user.
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := c.GetString("userID")
	c.JSON(http.StatusOK, gin.H{"requests": h.friends.PendingRequests(userID)})
}

// SendRequest creates a friend request addressed by user id or email.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.UserID == "" && req.Email == "") {
		emitAudit(c, h.audit, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or email required"})
		return
	}

	toID := req.UserID
	if toID == "" {
		user, err := h.users.FindByEmail(req.Email)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		toID = user.ID
	}

	created, err := h.friends.SendRequest(userID, toID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrAlreadyFriends):
			c.JSON(http.StatusConflict, gin.H{"error": "already friends"})
		case errors.Is(err, service.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, gin.H{"error": "request already pending"})
		case errors.Is(err, service.ErrSelfRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot befriend yourself"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create request"})
		}
		return
	}

	emitAudit(c, h.audit, "INFO", "friend request sent")
	c.JSON(http.StatusCreated, gin.H{"request": created})
}

// AcceptRequest accepts a pending request addressed to the user.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID := c.GetString("userID")
	requestID := c.Param("request_id")

	req, err := h.friends.AcceptRequest(requestID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}

	emitAudit(c, h.audit, "INFO", "friend request accepted")
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// RejectRequest rejects a pending request addressed to the user.
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID := c.GetString("userID")
	requestID := c.Param("request_id")

	if err := h.friends.RejectRequest(requestID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveFriend deletes the friendship in both directions. Removing an absent
// friendship succeeds: the end state is the same.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	userID := c.GetString("userID")
	friendID := c.Param("friend_id")

	h.friends.RemoveFriend(userID, friendID)
	emitAudit(c, h.audit, "INFO", "friend removed")
	c.Status(http.StatusNoContent)
}
