package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/internal/models"
)

// Dashboard clients mark unsaved rows with ids above the int32 range.
// Anything outside (0, maxPersistedID] is treated as a temporary id.
const maxPersistedID = int64(math.MaxInt32)

// ContentRepo is the write-capable store behind the content service.
type ContentRepo interface {
	ListAll(ctx context.Context) ([]models.ContentNode, error)
	GetByID(ctx context.Context, id int64) (*models.ContentNode, error)
	Create(ctx context.Context, node *models.ContentNode) error
	Update(ctx context.Context, node *models.ContentNode) error
	Delete(ctx context.Context, id int64) error
	DeleteAbsent(ctx context.Context, keep []int64) error
	DeleteAll(ctx context.Context) error
	ReplaceButtons(ctx context.Context, questionID int64, buttons []models.Button) error
}

// ContentService owns the editor-facing tree operations, including the bulk
// synchronization used by the dashboard save action.
type ContentService struct {
	repo ContentRepo
}

func NewContentService(repo ContentRepo) *ContentService {
	return &ContentService{repo: repo}
}

func (s *ContentService) List(ctx context.Context) ([]models.ContentNode, error) {
	return s.repo.ListAll(ctx)
}

func (s *ContentService) Get(ctx context.Context, id int64) (*models.ContentNode, error) {
	return s.repo.GetByID(ctx, id)
}

// Save upserts a single node together with its button set.
func (s *ContentService) Save(ctx context.Context, node *models.ContentNode) error {
	if isTempID(node.ID) {
		node.ID = 0
		if err := s.repo.Create(ctx, node); err != nil {
			return err
		}
	} else if err := s.repo.Update(ctx, node); err != nil {
		return err
	}
	if err := s.repo.ReplaceButtons(ctx, node.ID, node.Buttons); err != nil {
		return err
	}
	logger.Info(ctx, "service.content", "node.saved", slog.Int64("node_id", node.ID))
	return nil
}

func (s *ContentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "service.content", "node.deleted", slog.Int64("node_id", id))
	return nil
}

// SaveTree replaces the whole tree with the given payload. Rows carrying
// temporary ids are created first, then every reference (parent, default next,
// button targets) is rewritten onto real ids in a second pass. Rows absent
// from the payload are removed, children included.
func (s *ContentService) SaveTree(ctx context.Context, nodes []models.ContentNode) ([]models.ContentNode, error) {
	idMap := make(map[int64]int64)

	for i := range nodes {
		if !isTempID(nodes[i].ID) {
			continue
		}
		tempID := nodes[i].ID
		fresh := nodes[i]
		fresh.ID = 0
		fresh.Buttons = nil
		// Parent may itself be temporary; pass two rewires it.
		if fresh.ParentID != nil && isTempID(*fresh.ParentID) {
			fresh.ParentID = nil
		}
		if fresh.DefaultNextID != nil && isTempID(*fresh.DefaultNextID) && *fresh.DefaultNextID != models.TerminalID {
			fresh.DefaultNextID = nil
		}
		if err := s.repo.Create(ctx, &fresh); err != nil {
			return nil, err
		}
		idMap[tempID] = fresh.ID
	}

	keep := make([]int64, 0, len(nodes))
	for i := range nodes {
		final := nodes[i]
		final.ID = resolveID(final.ID, idMap)
		final.ParentID = resolveRef(final.ParentID, idMap)
		final.DefaultNextID = resolveRef(final.DefaultNextID, idMap)
		if err := s.repo.Update(ctx, &final); err != nil {
			return nil, err
		}

		buttons := make([]models.Button, len(final.Buttons))
		for j, btn := range final.Buttons {
			btn.QuestionID = final.ID
			btn.NextID = resolveRef(btn.NextID, idMap)
			buttons[j] = btn
		}
		if err := s.repo.ReplaceButtons(ctx, final.ID, buttons); err != nil {
			return nil, err
		}

		nodes[i] = final
		nodes[i].Buttons = buttons
		keep = append(keep, final.ID)
	}

	var err error
	if len(keep) == 0 {
		err = s.repo.DeleteAll(ctx)
	} else {
		err = s.repo.DeleteAbsent(ctx, keep)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "service.content", "tree.synced",
		slog.Int("nodes", len(keep)),
		slog.Int("created", len(idMap)),
	)
	return nodes, nil
}

func isTempID(id int64) bool {
	return id <= 0 || id > maxPersistedID
}

// resolveID maps a temporary id onto the row created for it.
func resolveID(id int64, idMap map[int64]int64) int64 {
	if real, ok := idMap[id]; ok {
		return real
	}
	return id
}

// resolveRef rewrites a reference onto real ids. The terminal sentinel and
// references to rows the payload never introduced pass through untouched.
func resolveRef(ref *int64, idMap map[int64]int64) *int64 {
	if ref == nil || *ref == models.TerminalID {
		return ref
	}
	if real, ok := idMap[*ref]; ok {
		return &real
	}
	return ref
}
