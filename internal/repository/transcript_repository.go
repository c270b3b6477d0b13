package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zeynale/menubot/internal/models"
)

// TranscriptRepository appends and reads the per-user message log.
type TranscriptRepository struct {
	db *sqlx.DB
}

// NewTranscriptRepository creates a TranscriptRepository backed by the given pool.
func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Append writes one entry. Entries are never updated or deleted by the bot.
func (r *TranscriptRepository) Append(ctx context.Context, userID int64, sender, text string) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, sender, text) VALUES ($1, $2, $3)
	`, userID, sender, text); err != nil {
		return fmt.Errorf("append transcript for user %d: %w", userID, err)
	}
	return nil
}

// ListByUser returns the transcript oldest-first.
func (r *TranscriptRepository) ListByUser(ctx context.Context, userID int64) ([]models.TranscriptEntry, error) {
	var entries []models.TranscriptEntry
	if err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, sender, text, created_at
		FROM messages WHERE user_id = $1 ORDER BY created_at, id
	`, userID); err != nil {
		return nil, fmt.Errorf("list transcript for user %d: %w", userID, err)
	}
	return entries, nil
}
