package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeynale/menubot/internal/service"
)

// UserDirectory lists users with their transcripts.
type UserDirectory interface {
	ListWithTranscripts(ctx context.Context) ([]service.UserWithTranscript, error)
}

// UserHandler serves GET /api/users.
type UserHandler struct {
	users UserDirectory
}

func NewUserHandler(users UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	out, err := h.users.ListWithTranscripts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
