package admin

import (
	"time"

	"github.com/zeynale/menubot/internal/models"
)

// QuestionDTO is the dashboard wire shape of one tree node. Ids above the
// int32 range are client-side temporaries, resolved on save.
type QuestionDTO struct {
	ID            int64              `json:"id"`
	ParentID      *int64             `json:"parentId"`
	Text          string             `json:"text"`
	TextRu        *string            `json:"textRu,omitempty"`
	Answer        *string            `json:"answer,omitempty"`
	AnswerRu      *string            `json:"answerRu,omitempty"`
	IsActive      *bool              `json:"isActive,omitempty"`
	ExternalLink  *string            `json:"externalLink,omitempty"`
	LinkText      *string            `json:"linkText,omitempty"`
	LinkTextRu    *string            `json:"linkTextRu,omitempty"`
	Attachment    *models.Attachment `json:"attachment,omitempty"`
	DefaultNextID *int64             `json:"defaultNextId,omitempty"`
	Buttons       []ButtonDTO        `json:"buttons,omitempty"`
	CreatedAt     *time.Time         `json:"createdAt,omitempty"`
}

// ButtonDTO mirrors one explicit choice row.
type ButtonDTO struct {
	ID             int64   `json:"id"`
	Text           string  `json:"text"`
	TextRu         *string `json:"textRu,omitempty"`
	NextQuestionID *int64  `json:"nextQuestionId,omitempty"`
}

// ToModel converts the wire shape into the storage model. Activity defaults
// to true when the client omits the flag.
func (d QuestionDTO) ToModel() (models.ContentNode, error) {
	node := models.ContentNode{
		ID:            d.ID,
		ParentID:      d.ParentID,
		Text:          d.Text,
		TextRu:        d.TextRu,
		Answer:        d.Answer,
		AnswerRu:      d.AnswerRu,
		IsActive:      true,
		ExternalLink:  d.ExternalLink,
		LinkText:      d.LinkText,
		LinkTextRu:    d.LinkTextRu,
		DefaultNextID: d.DefaultNextID,
	}
	if d.IsActive != nil {
		node.IsActive = *d.IsActive
	}
	if err := node.SetAttachment(d.Attachment); err != nil {
		return node, err
	}
	node.Buttons = make([]models.Button, 0, len(d.Buttons))
	for _, b := range d.Buttons {
		node.Buttons = append(node.Buttons, models.Button{
			ID:         b.ID,
			QuestionID: d.ID,
			Text:       b.Text,
			TextRu:     b.TextRu,
			NextID:     b.NextQuestionID,
		})
	}
	return node, nil
}

// FromModel converts a storage node back into the wire shape.
func FromModel(node models.ContentNode) QuestionDTO {
	active := node.IsActive
	created := node.CreatedAt
	dto := QuestionDTO{
		ID:            node.ID,
		ParentID:      node.ParentID,
		Text:          node.Text,
		TextRu:        node.TextRu,
		Answer:        node.Answer,
		AnswerRu:      node.AnswerRu,
		IsActive:      &active,
		ExternalLink:  node.ExternalLink,
		LinkText:      node.LinkText,
		LinkTextRu:    node.LinkTextRu,
		DefaultNextID: node.DefaultNextID,
		CreatedAt:     &created,
	}
	// An undecodable descriptor is dropped from the listing rather than
	// failing the whole response.
	if att, err := node.Attachment(); err == nil {
		dto.Attachment = att
	}
	dto.Buttons = make([]ButtonDTO, 0, len(node.Buttons))
	for _, b := range node.Buttons {
		dto.Buttons = append(dto.Buttons, ButtonDTO{
			ID:             b.ID,
			Text:           b.Text,
			TextRu:         b.TextRu,
			NextQuestionID: b.NextID,
		})
	}
	return dto
}
