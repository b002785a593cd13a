package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/store"
)

// UserHandler exposes the user directory.
type UserHandler struct {
	users store.UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Search filters the directory by name or email substring.
func (h *UserHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.users.Search(c.Query("q"))})
}

// Me returns the acting user's record.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
