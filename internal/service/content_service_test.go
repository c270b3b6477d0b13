package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeynale/menubot/internal/models"
)

type fakeContentRepo struct {
	nextID   int64
	created  []models.ContentNode
	updated  []models.ContentNode
	buttons  map[int64][]models.Button
	kept     []int64
	cleared  bool
	deleted  []int64
	existing []models.ContentNode
}

func newFakeRepo() *fakeContentRepo {
	return &fakeContentRepo{nextID: 100, buttons: map[int64][]models.Button{}}
}

func (f *fakeContentRepo) ListAll(_ context.Context) ([]models.ContentNode, error) {
	return f.existing, nil
}

func (f *fakeContentRepo) GetByID(_ context.Context, id int64) (*models.ContentNode, error) {
	for i := range f.existing {
		if f.existing[i].ID == id {
			return &f.existing[i], nil
		}
	}
	return nil, nil
}

func (f *fakeContentRepo) Create(_ context.Context, node *models.ContentNode) error {
	f.nextID++
	node.ID = f.nextID
	f.created = append(f.created, *node)
	return nil
}

func (f *fakeContentRepo) Update(_ context.Context, node *models.ContentNode) error {
	f.updated = append(f.updated, *node)
	return nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeContentRepo) DeleteAbsent(_ context.Context, keep []int64) error {
	f.kept = keep
	return nil
}

func (f *fakeContentRepo) DeleteAll(_ context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeContentRepo) ReplaceButtons(_ context.Context, questionID int64, buttons []models.Button) error {
	f.buttons[questionID] = buttons
	return nil
}

func i64(v int64) *int64 { return &v }

func TestSaveTreeMapsTemporaryIDs(t *testing.T) {
	repo := newFakeRepo()
	svc := NewContentService(repo)

	const tempParent = int64(3_000_000_000)
	const tempChild = int64(3_000_000_001)

	payload := []models.ContentNode{
		{ID: 1, Text: "existing", IsActive: true, DefaultNextID: i64(tempParent)},
		{ID: tempParent, Text: "new category", IsActive: true},
		{
			ID:       tempChild,
			ParentID: i64(tempParent),
			Text:     "new child",
			IsActive: true,
			Buttons: []models.Button{
				{Text: "back to it", NextID: i64(tempParent)},
			},
		},
	}

	saved, err := svc.SaveTree(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, saved, 3)

	// Both temporaries became real rows.
	require.Len(t, repo.created, 2)
	parentID := repo.created[0].ID
	childID := repo.created[1].ID
	assert.Equal(t, int64(101), parentID)
	assert.Equal(t, int64(102), childID)

	// References were rewritten onto the real ids in the second pass.
	require.Len(t, repo.updated, 3)
	assert.Equal(t, parentID, *repo.updated[0].DefaultNextID)
	require.NotNil(t, repo.updated[2].ParentID)
	assert.Equal(t, parentID, *repo.updated[2].ParentID)

	buttons := repo.buttons[childID]
	require.Len(t, buttons, 1)
	assert.Equal(t, parentID, *buttons[0].NextID)
	assert.Equal(t, childID, buttons[0].QuestionID)

	assert.ElementsMatch(t, []int64{1, parentID, childID}, repo.kept)
	assert.False(t, repo.cleared)
}

func TestSaveTreePreservesTerminalSentinel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewContentService(repo)

	payload := []models.ContentNode{
		{ID: 1, Text: "last", IsActive: true, DefaultNextID: i64(models.TerminalID)},
	}

	_, err := svc.SaveTree(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, models.TerminalID, *repo.updated[0].DefaultNextID)
}

func TestSaveTreeEmptyPayloadClearsTree(t *testing.T) {
	repo := newFakeRepo()
	svc := NewContentService(repo)

	saved, err := svc.SaveTree(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, saved)
	assert.True(t, repo.cleared)
}

func TestSaveCreatesOnTemporaryID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewContentService(repo)

	node := models.ContentNode{ID: 5_000_000_000, Text: "fresh", IsActive: true}
	require.NoError(t, svc.Save(context.Background(), &node))

	require.Len(t, repo.created, 1)
	assert.Empty(t, repo.updated)
	assert.Equal(t, int64(101), node.ID)
	assert.Contains(t, repo.buttons, node.ID)
}

func TestSaveUpdatesPersistedID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewContentService(repo)

	node := models.ContentNode{ID: 7, Text: "edited", IsActive: true}
	require.NoError(t, svc.Save(context.Background(), &node))

	assert.Empty(t, repo.created)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, int64(7), repo.updated[0].ID)
}
