package models

import "time"

// Transcript entry directions.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// TranscriptEntry is one logged message in one direction, owned by a user.
// Entries are append-only; nothing in the bot mutates or deletes them.
type TranscriptEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	Sender    string    `db:"sender" json:"sender"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
