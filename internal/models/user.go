package models

import "time"

// Supported conversation languages. Azerbaijani is the default locale.
const (
	LangAz = "az"
	LangRu = "ru"
)

// UserState is the per-end-user session record keyed by Telegram identity.
type UserState struct {
	ID            int64     `db:"id" json:"id"`
	TelegramID    int64     `db:"telegram_id" json:"telegramId,string"`
	Username      *string   `db:"username" json:"username,omitempty"`
	DisplayName   *string   `db:"display_name" json:"displayName,omitempty"`
	IsAnonymous   bool      `db:"is_anonymous" json:"isAnonymous"`
	Language      *string   `db:"language" json:"language,omitempty"`
	CurrentNodeID *int64    `db:"current_node_id" json:"currentNodeId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Lang returns the stored language or the default locale.
func (u *UserState) Lang() string {
	if u.Language != nil && *u.Language == LangRu {
		return LangRu
	}
	return LangAz
}

// HasLanguage reports whether the user completed the language gate.
func (u *UserState) HasLanguage() bool {
	return u.Language != nil && *u.Language != ""
}

// NeedsName reports whether the next free-text message should be captured as
// the user's name (legacy flow).
func (u *UserState) NeedsName() bool {
	return !u.IsAnonymous && (u.DisplayName == nil || *u.DisplayName == "")
}
