package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zeynale/menubot/internal/models"
)

const userColumns = `id, telegram_id, username, display_name, is_anonymous,
	language, current_node_id, created_at`

// UserRepository persists per-end-user session records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository backed by the given pool.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate resolves the user record for a Telegram identity, creating it on
// first contact. The operation is idempotent: concurrent first contacts race on
// the unique telegram_id and the loser re-reads the winner's row.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.UserState, error) {
	var user models.UserState
	err := r.db.GetContext(ctx, &user, `
		SELECT `+userColumns+` FROM users WHERE telegram_id = $1
	`, telegramID)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %d: %w", telegramID, err)
	}

	var uname *string
	if username != "" {
		uname = &username
	}
	err = r.db.GetContext(ctx, &user, `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET username = COALESCE(EXCLUDED.username, users.username)
		RETURNING `+userColumns+`
	`, telegramID, uname)
	if err != nil {
		return nil, fmt.Errorf("create user %d: %w", telegramID, err)
	}
	return &user, nil
}

// SetLanguage stores the user's locale choice.
func (r *UserRepository) SetLanguage(ctx context.Context, userID int64, lang string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE users SET language = $2 WHERE id = $1
	`, userID, lang); err != nil {
		return fmt.Errorf("set language for user %d: %w", userID, err)
	}
	return nil
}

// SetDisplayName stores the captured name.
func (r *UserRepository) SetDisplayName(ctx context.Context, userID int64, name string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE users SET display_name = $2 WHERE id = $1
	`, userID, name); err != nil {
		return fmt.Errorf("set display name for user %d: %w", userID, err)
	}
	return nil
}

// SetAnonymous flags the user anonymous with the placeholder display name.
func (r *UserRepository) SetAnonymous(ctx context.Context, userID int64, placeholder string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_anonymous = TRUE, display_name = $2 WHERE id = $1
	`, userID, placeholder); err != nil {
		return fmt.Errorf("set anonymous for user %d: %w", userID, err)
	}
	return nil
}

// SetCurrentNode records the node last presented to the user. Concurrent turns
// for the same user are not serialized; the last write wins.
func (r *UserRepository) SetCurrentNode(ctx context.Context, userID, nodeID int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE users SET current_node_id = $2 WHERE id = $1
	`, userID, nodeID); err != nil {
		return fmt.Errorf("set current node for user %d: %w", userID, err)
	}
	return nil
}

// ListAll returns users newest-first for the dashboard.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.UserState, error) {
	var users []models.UserState
	if err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
