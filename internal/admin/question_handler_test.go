package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeynale/menubot/internal/models"
)

type fakeEditor struct {
	nodes     []models.ContentNode
	savedOne  *models.ContentNode
	savedTree []models.ContentNode
	deletedID int64
}

func (f *fakeEditor) List(_ context.Context) ([]models.ContentNode, error) {
	return f.nodes, nil
}

func (f *fakeEditor) Save(_ context.Context, node *models.ContentNode) error {
	node.ID = 42
	f.savedOne = node
	return nil
}

func (f *fakeEditor) SaveTree(_ context.Context, nodes []models.ContentNode) ([]models.ContentNode, error) {
	f.savedTree = nodes
	return nodes, nil
}

func (f *fakeEditor) Delete(_ context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func testRouter(editor *fakeEditor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewQuestionHandler(editor)
	r := gin.New()
	r.GET("/api/questions", h.ListQuestions)
	r.POST("/api/questions", h.SaveQuestions)
	r.DELETE("/api/questions/:id", h.DeleteQuestion)
	return r
}

func TestListQuestions(t *testing.T) {
	raw := `{"type":"image","url":"/uploads/a.png","name":"a.png"}`
	editor := &fakeEditor{nodes: []models.ContentNode{
		{ID: 1, Text: "root", IsActive: true, AttachmentRaw: &raw},
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	testRouter(editor).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out []QuestionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
	require.NotNil(t, out[0].Attachment)
	assert.Equal(t, models.AttachmentImage, out[0].Attachment.Kind)
	assert.Equal(t, "/uploads/a.png", out[0].Attachment.URL)
}

func TestSaveQuestionsBulk(t *testing.T) {
	editor := &fakeEditor{}
	body := `[
		{"id": 1, "text": "root"},
		{"id": 3000000000, "text": "new", "parentId": 1,
		 "buttons": [{"text": "go", "nextQuestionId": -1}]}
	]`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	testRouter(editor).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, editor.savedTree, 2)
	// Activity defaults to true when omitted.
	assert.True(t, editor.savedTree[0].IsActive)
	require.Len(t, editor.savedTree[1].Buttons, 1)
	assert.Equal(t, models.TerminalID, *editor.savedTree[1].Buttons[0].NextID)
}

func TestSaveQuestionsSingle(t *testing.T) {
	editor := &fakeEditor{}
	body := `{"id": 0, "text": "hello", "isActive": false,
		"attachment": {"type": "file", "url": "https://x/doc.pdf", "name": "doc.pdf"}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	testRouter(editor).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, editor.savedOne)
	assert.False(t, editor.savedOne.IsActive)
	require.NotNil(t, editor.savedOne.AttachmentRaw)
	assert.Contains(t, *editor.savedOne.AttachmentRaw, `"type":"file"`)

	var out QuestionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(42), out.ID)
}

func TestSaveQuestionsInvalidPayload(t *testing.T) {
	editor := &fakeEditor{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader("not json"))
	testRouter(editor).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteQuestion(t *testing.T) {
	editor := &fakeEditor{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/questions/7", nil)
	testRouter(editor).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), editor.deletedID)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/questions/abc", nil)
	testRouter(editor).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
