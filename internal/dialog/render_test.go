package dialog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeynale/menubot/core/telegram/format"
	"github.com/zeynale/menubot/internal/models"
)

func treeRenderer() *Renderer {
	return NewRenderer(RenderOptions{Variant: VariantTree, UploadsDir: "updir"})
}

func TestRenderMenuNumbersChildren(t *testing.T) {
	parent := models.ContentNode{ID: 1, Text: "Xidmətlər", IsActive: true}
	children := []models.ContentNode{
		{ID: 10, ParentID: i64(1), Text: "Qiymətlər", IsActive: true},
		{ID: 11, ParentID: i64(1), Text: "Ünvan", IsActive: true},
	}

	plan := treeRenderer().Render(&parent, children, models.LangAz)

	assert.Contains(t, plan.Body, "<b>Xidmətlər</b>")
	assert.Contains(t, plan.Body, "\n1. Qiymətlər")
	assert.Contains(t, plan.Body, "\n2. Ünvan")
	assert.Equal(t, "Xidmətlər", plan.PlainText)

	// Two numeric buttons plus a back row.
	require.Len(t, plan.Buttons, 2)
	assert.Equal(t, "1", plan.Buttons[0][0].Label)
	assert.Equal(t, CallbackGoto, plan.Buttons[0][0].Callback)
	assert.Equal(t, "10", plan.Buttons[0][0].Payload)
	assert.Equal(t, GotoRootPayload, plan.Buttons[1][0].Payload)
}

func TestRenderMenuChunksFivePerRow(t *testing.T) {
	var children []models.ContentNode
	for i := int64(1); i <= 7; i++ {
		children = append(children, models.ContentNode{ID: 100 + i, Text: "c", IsActive: true})
	}

	plan := treeRenderer().RenderRoot(children, models.LangAz)

	// 5 + 2 numeric buttons, no nav rows at the root.
	require.Len(t, plan.Buttons, 2)
	assert.Len(t, plan.Buttons[0], 5)
	assert.Len(t, plan.Buttons[1], 2)
}

func TestRenderLeafWithAnswer(t *testing.T) {
	nd := models.ContentNode{
		ID:       5,
		ParentID: i64(2),
		Text:     "İş saatları",
		Answer:   str("Hər gün 09:00 <> 18:00"),
		IsActive: true,
	}

	plan := treeRenderer().Render(&nd, nil, models.LangAz)

	assert.True(t, strings.HasPrefix(plan.Body, "<b>İş saatları</b>\n\n"))
	assert.Contains(t, plan.Body, "09:00 &lt;&gt; 18:00")
	assert.Equal(t, "İş saatları\n\nHər gün 09:00 <> 18:00", plan.PlainText)

	// Back targets the parent, home targets the root.
	require.Len(t, plan.Buttons, 1)
	require.Len(t, plan.Buttons[0], 2)
	assert.Equal(t, "2", plan.Buttons[0][0].Payload)
	assert.Equal(t, GotoRootPayload, plan.Buttons[0][1].Payload)
}

func TestRenderLeafRussianFallback(t *testing.T) {
	nd := models.ContentNode{ID: 5, Text: "Salam", TextRu: str("Привет"), IsActive: true}
	plan := treeRenderer().Render(&nd, nil, models.LangRu)
	assert.Contains(t, plan.Body, "Привет")

	// Empty ru text falls back to the default locale text.
	nd.TextRu = str("")
	plan = treeRenderer().Render(&nd, nil, models.LangRu)
	assert.Contains(t, plan.Body, "Salam")
}

func TestRenderLeafLinkifiesAnswer(t *testing.T) {
	nd := models.ContentNode{
		ID:           5,
		Text:         "Qeydiyyat",
		Answer:       str("Formu burada doldurun"),
		ExternalLink: str("example.com/form"),
		IsActive:     true,
	}

	plan := treeRenderer().Render(&nd, nil, models.LangAz)
	assert.Contains(t, plan.Body, `<a href="https://example.com/form">burada</a>`)
	assert.Equal(t, "Qeydiyyat\n\nFormu burada doldurun", plan.PlainText)
}

func TestRenderMarkerOverride(t *testing.T) {
	nd := models.ContentNode{
		ID:           5,
		Text:         "Qeydiyyat",
		Answer:       str("Müraciəti formada göndərin"),
		ExternalLink: str("example.com/form"),
		LinkText:     str("formada"),
		LinkTextRu:   str("форме"),
		IsActive:     true,
	}

	plan := treeRenderer().Render(&nd, nil, models.LangAz)
	assert.Contains(t, plan.Body, `<a href="https://example.com/form">formada</a>`)
	// The locale default marker is not rewritten once an override is set.
	assert.NotContains(t, plan.Body, `>burada</a>`)

	nd.AnswerRu = str("Отправьте заявку в форме")
	plan = treeRenderer().Render(&nd, nil, models.LangRu)
	assert.Contains(t, plan.Body, `<a href="https://example.com/form">форме</a>`)
}

func TestRenderAttachmentResolution(t *testing.T) {
	nd := models.ContentNode{ID: 5, Text: "Sənəd", IsActive: true}

	require.NoError(t, nd.SetAttachment(&models.Attachment{Kind: models.AttachmentImage, URL: "/uploads/map.png", Name: "map.png"}))
	plan := treeRenderer().Render(&nd, nil, models.LangAz)
	require.NotNil(t, plan.Attachment)
	assert.Equal(t, filepath.Join("updir", "map.png"), plan.Attachment.LocalPath)
	assert.Empty(t, plan.Attachment.RemoteURL)

	require.NoError(t, nd.SetAttachment(&models.Attachment{Kind: models.AttachmentFile, URL: "blob:local-only", Name: "x"}))
	plan = treeRenderer().Render(&nd, nil, models.LangAz)
	assert.Nil(t, plan.Attachment)

	require.NoError(t, nd.SetAttachment(&models.Attachment{Kind: models.AttachmentFile, URL: "https://cdn.example.com/doc.pdf", Name: "doc.pdf"}))
	plan = treeRenderer().Render(&nd, nil, models.LangAz)
	require.NotNil(t, plan.Attachment)
	assert.Equal(t, "https://cdn.example.com/doc.pdf", plan.Attachment.RemoteURL)
}

func TestRenderMenuTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	var children []models.ContentNode
	for i := int64(0); i < 12; i++ {
		children = append(children, models.ContentNode{ID: 100 + i, Text: long, IsActive: true})
	}

	plan := treeRenderer().RenderRoot(children, models.LangAz)
	assert.LessOrEqual(t, len([]rune(plan.Body)), 4096)
	assert.True(t, strings.HasSuffix(plan.Body, "…"))
}

func TestRenderFlatButtons(t *testing.T) {
	r := NewRenderer(RenderOptions{Variant: VariantFlat})
	nd := models.ContentNode{
		ID:       5,
		Text:     "Sual",
		IsActive: true,
		Buttons: []models.Button{
			{ID: 21, QuestionID: 5, Text: "Beli"},
			{ID: 22, QuestionID: 5, Text: "Xeyr", TextRu: str("Нет")},
		},
	}

	plan := r.Render(&nd, nil, models.LangRu)

	require.Len(t, plan.Buttons, 2)
	assert.Equal(t, CallbackButton, plan.Buttons[0][0].Callback)
	assert.Equal(t, "21", plan.Buttons[0][0].Payload)
	// Latin labels are restyled into bold unicode; cyrillic passes through.
	assert.Equal(t, format.BoldSans("Beli"), plan.Buttons[0][0].Label)
	assert.NotEqual(t, "Beli", plan.Buttons[0][0].Label)
	assert.Equal(t, "Нет", plan.Buttons[1][0].Label)
}
