package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zeynale/menubot/internal/models"
)

// ContentEditor is the tree editing surface consumed by the questions API.
type ContentEditor interface {
	List(ctx context.Context) ([]models.ContentNode, error)
	Save(ctx context.Context, node *models.ContentNode) error
	SaveTree(ctx context.Context, nodes []models.ContentNode) ([]models.ContentNode, error)
	Delete(ctx context.Context, id int64) error
}

// QuestionHandler serves the dashboard's content tree endpoints.
type QuestionHandler struct {
	content ContentEditor
}

func NewQuestionHandler(content ContentEditor) *QuestionHandler {
	return &QuestionHandler{content: content}
}

// ListQuestions handles GET /api/questions.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	nodes, err := h.content.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]QuestionDTO, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, FromModel(n))
	}
	c.JSON(http.StatusOK, out)
}

// SaveQuestions handles POST /api/questions. An array payload replaces the
// whole tree; an object payload upserts one node.
func (h *QuestionHandler) SaveQuestions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		h.saveTree(c, trimmed)
		return
	}
	h.saveOne(c, trimmed)
}

func (h *QuestionHandler) saveTree(c *gin.Context, body []byte) {
	var payload []QuestionDTO
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	nodes := make([]models.ContentNode, 0, len(payload))
	for _, dto := range payload {
		node, err := dto.ToModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		nodes = append(nodes, node)
	}

	saved, err := h.content.SaveTree(c.Request.Context(), nodes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]QuestionDTO, 0, len(saved))
	for _, n := range saved {
		out = append(out, FromModel(n))
	}
	c.JSON(http.StatusOK, out)
}

func (h *QuestionHandler) saveOne(c *gin.Context, body []byte) {
	var dto QuestionDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	node, err := dto.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.content.Save(c.Request.Context(), &node); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, FromModel(node))
}

// DeleteQuestion handles DELETE /api/questions/:id.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.content.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
