package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zeynale/menubot/internal/models"
)

const nodeColumns = `id, parent_id, text, text_ru, answer, answer_ru, is_active,
	external_link, link_text, link_text_ru, attachment, default_next_id, created_at`

// ContentRepository is the typed accessor over the question/category tree.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a ContentRepository backed by the given pool.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetByID returns the node with the given id, or nil when it does not exist.
func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*models.ContentNode, error) {
	var node models.ContentNode
	err := r.db.GetContext(ctx, &node, `
		SELECT `+nodeColumns+` FROM questions WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get node %d: %w", id, err)
	}
	if err := r.attachButtons(ctx, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// ChildrenOf returns the active children of parentID ordered by ascending id.
// models.RootID selects top-level categories.
func (r *ContentRepository) ChildrenOf(ctx context.Context, parentID int64) ([]models.ContentNode, error) {
	var nodes []models.ContentNode
	var err error
	if parentID == models.RootID {
		err = r.db.SelectContext(ctx, &nodes, `
			SELECT `+nodeColumns+` FROM questions
			WHERE is_active = TRUE AND parent_id IS NULL ORDER BY id
		`)
	} else {
		err = r.db.SelectContext(ctx, &nodes, `
			SELECT `+nodeColumns+` FROM questions
			WHERE is_active = TRUE AND parent_id = $1 ORDER BY id
		`, parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("children of %d: %w", parentID, err)
	}
	return nodes, nil
}

// FirstActiveRoot returns the active node with the lowest id, or nil when the
// tree has no active content.
func (r *ContentRepository) FirstActiveRoot(ctx context.Context) (*models.ContentNode, error) {
	var node models.ContentNode
	err := r.db.GetContext(ctx, &node, `
		SELECT `+nodeColumns+` FROM questions
		WHERE is_active = TRUE ORDER BY id LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first active root: %w", err)
	}
	if err := r.attachButtons(ctx, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// FirstActiveAfter returns the next active node with id strictly greater than
// the reference id, or nil when none remains. This total order is the engine's
// sequential fallback.
func (r *ContentRepository) FirstActiveAfter(ctx context.Context, id int64) (*models.ContentNode, error) {
	var node models.ContentNode
	err := r.db.GetContext(ctx, &node, `
		SELECT `+nodeColumns+` FROM questions
		WHERE is_active = TRUE AND id > $1 ORDER BY id LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first active after %d: %w", id, err)
	}
	if err := r.attachButtons(ctx, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// GetButton returns a button by id, or nil when it does not exist.
func (r *ContentRepository) GetButton(ctx context.Context, id int64) (*models.Button, error) {
	var btn models.Button
	err := r.db.GetContext(ctx, &btn, `
		SELECT id, question_id, text, text_ru, next_question_id
		FROM buttons WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get button %d: %w", id, err)
	}
	return &btn, nil
}

// ListAll returns the whole tree ordered by id, buttons included, for the
// dashboard editor.
func (r *ContentRepository) ListAll(ctx context.Context) ([]models.ContentNode, error) {
	var nodes []models.ContentNode
	if err := r.db.SelectContext(ctx, &nodes, `
		SELECT `+nodeColumns+` FROM questions ORDER BY id
	`); err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	for i := range nodes {
		if err := r.attachButtons(ctx, &nodes[i]); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// Create inserts a node and returns it with the assigned id.
func (r *ContentRepository) Create(ctx context.Context, node *models.ContentNode) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO questions (parent_id, text, text_ru, answer, answer_ru, is_active,
			external_link, link_text, link_text_ru, attachment, default_next_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, node.ParentID, node.Text, node.TextRu, node.Answer, node.AnswerRu, node.IsActive,
		node.ExternalLink, node.LinkText, node.LinkTextRu, node.AttachmentRaw, node.DefaultNextID,
	).Scan(&node.ID, &node.CreatedAt)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an existing node.
func (r *ContentRepository) Update(ctx context.Context, node *models.ContentNode) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE questions SET parent_id = $2, text = $3, text_ru = $4, answer = $5,
			answer_ru = $6, is_active = $7, external_link = $8, link_text = $9,
			link_text_ru = $10, attachment = $11, default_next_id = $12
		WHERE id = $1
	`, node.ID, node.ParentID, node.Text, node.TextRu, node.Answer, node.AnswerRu,
		node.IsActive, node.ExternalLink, node.LinkText, node.LinkTextRu,
		node.AttachmentRaw, node.DefaultNextID)
	if err != nil {
		return fmt.Errorf("update node %d: %w", node.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update node %d: %w", node.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete removes a node together with its direct children.
func (r *ContentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete node %d: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE parent_id = $1`, id); err != nil {
		return fmt.Errorf("delete children of %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete node %d: %w", id, err)
	}
	return tx.Commit()
}

// DeleteAbsent removes every node whose id is not in keep. Children of removed
// nodes go with them via the parent_id cascade.
func (r *ContentRepository) DeleteAbsent(ctx context.Context, keep []int64) error {
	query, args, err := sqlx.In(`DELETE FROM questions WHERE id NOT IN (?)`, keep)
	if err != nil {
		return fmt.Errorf("delete absent: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete absent: %w", err)
	}
	return nil
}

// DeleteAll clears the tree; used by bulk sync when the payload keeps nothing.
func (r *ContentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("delete all nodes: %w", err)
	}
	return nil
}

// ReplaceButtons swaps the button set of a node atomically. Caller passes the
// full desired set; ids are reassigned.
func (r *ContentRepository) ReplaceButtons(ctx context.Context, questionID int64, buttons []models.Button) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace buttons of %d: %w", questionID, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM buttons WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("replace buttons of %d: %w", questionID, err)
	}
	for _, btn := range buttons {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO buttons (question_id, text, text_ru, next_question_id)
			VALUES ($1, $2, $3, $4)
		`, questionID, btn.Text, btn.TextRu, btn.NextID); err != nil {
			return fmt.Errorf("replace buttons of %d: %w", questionID, err)
		}
	}
	return tx.Commit()
}

func (r *ContentRepository) attachButtons(ctx context.Context, node *models.ContentNode) error {
	var buttons []models.Button
	err := r.db.SelectContext(ctx, &buttons, `
		SELECT id, question_id, text, text_ru, next_question_id
		FROM buttons WHERE question_id = $1 ORDER BY id
	`, node.ID)
	if err != nil {
		return fmt.Errorf("buttons of %d: %w", node.ID, err)
	}
	node.Buttons = buttons
	return nil
}
