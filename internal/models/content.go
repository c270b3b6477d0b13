package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RootID is the virtual parent id of top-level categories.
const RootID int64 = 0

// TerminalID is the reserved next-id sentinel that ends the conversation.
const TerminalID int64 = -1

// Attachment kinds stored in the attachment descriptor.
const (
	AttachmentImage = "image"
	AttachmentFile  = "file"
)

// ContentNode is a category or a leaf question/answer in the dialog tree.
// A node with no active children renders as an answer; anything else is a menu.
type ContentNode struct {
	ID            int64     `db:"id" json:"id"`
	ParentID      *int64    `db:"parent_id" json:"parentId,omitempty"`
	Text          string    `db:"text" json:"text"`
	TextRu        *string   `db:"text_ru" json:"textRu,omitempty"`
	Answer        *string   `db:"answer" json:"answer,omitempty"`
	AnswerRu      *string   `db:"answer_ru" json:"answerRu,omitempty"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	ExternalLink  *string   `db:"external_link" json:"externalLink,omitempty"`
	LinkText      *string   `db:"link_text" json:"linkText,omitempty"`
	LinkTextRu    *string   `db:"link_text_ru" json:"linkTextRu,omitempty"`
	AttachmentRaw *string   `db:"attachment" json:"-"`
	DefaultNextID *int64    `db:"default_next_id" json:"defaultNextId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`

	Buttons []Button `db:"-" json:"buttons,omitempty"`
}

// Button is an explicit inline choice attached to a node (flat/legacy model).
type Button struct {
	ID         int64   `db:"id" json:"id"`
	QuestionID int64   `db:"question_id" json:"questionId"`
	Text       string  `db:"text" json:"text"`
	TextRu     *string `db:"text_ru" json:"textRu,omitempty"`
	NextID     *int64  `db:"next_question_id" json:"nextQuestionId,omitempty"`
}

// Attachment describes a single media object sent alongside a node.
type Attachment struct {
	Kind string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Attachment decodes the stored JSON descriptor. A nil return with nil error
// means the node carries no attachment.
func (n *ContentNode) Attachment() (*Attachment, error) {
	if n.AttachmentRaw == nil || *n.AttachmentRaw == "" {
		return nil, nil
	}
	var att Attachment
	if err := json.Unmarshal([]byte(*n.AttachmentRaw), &att); err != nil {
		return nil, fmt.Errorf("decode attachment for node %d: %w", n.ID, err)
	}
	if att.URL == "" {
		return nil, nil
	}
	return &att, nil
}

// SetAttachment encodes the descriptor back into the stored JSON form.
func (n *ContentNode) SetAttachment(att *Attachment) error {
	if att == nil {
		n.AttachmentRaw = nil
		return nil
	}
	raw, err := json.Marshal(att)
	if err != nil {
		return fmt.Errorf("encode attachment: %w", err)
	}
	s := string(raw)
	n.AttachmentRaw = &s
	return nil
}
