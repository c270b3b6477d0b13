package dialog

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeynale/menubot/internal/models"
)

type fakeContent struct {
	nodes   []models.ContentNode
	buttons []models.Button
}

func (f *fakeContent) GetByID(_ context.Context, id int64) (*models.ContentNode, error) {
	for i := range f.nodes {
		if f.nodes[i].ID == id {
			n := f.nodes[i]
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) ChildrenOf(_ context.Context, parentID int64) ([]models.ContentNode, error) {
	var out []models.ContentNode
	for _, n := range f.nodes {
		if !n.IsActive {
			continue
		}
		if parentID == models.RootID && n.ParentID == nil {
			out = append(out, n)
		} else if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContent) FirstActiveRoot(_ context.Context) (*models.ContentNode, error) {
	var best *models.ContentNode
	for i := range f.nodes {
		n := f.nodes[i]
		if !n.IsActive {
			continue
		}
		if best == nil || n.ID < best.ID {
			cp := n
			best = &cp
		}
	}
	return best, nil
}

func (f *fakeContent) FirstActiveAfter(_ context.Context, id int64) (*models.ContentNode, error) {
	var best *models.ContentNode
	for i := range f.nodes {
		n := f.nodes[i]
		if !n.IsActive || n.ID <= id {
			continue
		}
		if best == nil || n.ID < best.ID {
			cp := n
			best = &cp
		}
	}
	return best, nil
}

func (f *fakeContent) GetButton(_ context.Context, id int64) (*models.Button, error) {
	for i := range f.buttons {
		if f.buttons[i].ID == id {
			b := f.buttons[i]
			return &b, nil
		}
	}
	return nil, nil
}

func i64(v int64) *int64 { return &v }
func str(v string) *string { return &v }

func node(id int64, active bool) models.ContentNode {
	return models.ContentNode{ID: id, Text: "n", IsActive: active}
}

func userAt(nodeID int64) *models.UserState {
	lang := models.LangAz
	name := "Aysel"
	return &models.UserState{ID: 1, Language: &lang, DisplayName: &name, CurrentNodeID: i64(nodeID)}
}

func TestResolveStart(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(3, false), node(5, true), node(7, true)}})

	d, err := e.ResolveStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(5), d.NodeID)

	// Starting twice resolves to the same node.
	again, err := e.ResolveStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestResolveStartEmptyTree(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(1, false)}})

	d, err := e.ResolveStart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DecisionNoContent, d.Kind)
}

func TestResolveButtonSequentialFallbackSkipsInactive(t *testing.T) {
	e := NewEngine(&fakeContent{
		nodes:   []models.ContentNode{node(5, true), node(6, false), node(7, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 5, Text: "next"}},
	})

	d, err := e.ResolveButton(context.Background(), userAt(5), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(7), d.NodeID)
	require.NotNil(t, d.Button)
	assert.Equal(t, "next", d.Button.Text)
}

func TestResolveButtonExplicitEdge(t *testing.T) {
	e := NewEngine(&fakeContent{
		nodes:   []models.ContentNode{node(5, true), node(6, true), node(9, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 5, Text: "jump", NextID: i64(9)}},
	})

	d, err := e.ResolveButton(context.Background(), userAt(5), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), d.NodeID)
}

func TestResolveButtonDanglingEdgeFallsBack(t *testing.T) {
	e := NewEngine(&fakeContent{
		nodes:   []models.ContentNode{node(5, true), node(6, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 5, Text: "gone", NextID: i64(42)}},
	})

	d, err := e.ResolveButton(context.Background(), userAt(5), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(6), d.NodeID)
}

func TestResolveButtonTerminalSentinel(t *testing.T) {
	e := NewEngine(&fakeContent{
		nodes:   []models.ContentNode{node(5, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 5, Text: "end", NextID: i64(models.TerminalID)}},
	})

	d, err := e.ResolveButton(context.Background(), userAt(5), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionTerminal, d.Kind)
}

func TestResolveButtonUnknownIsSilent(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(5, true)}})

	d, err := e.ResolveButton(context.Background(), userAt(5), 99)
	require.NoError(t, err)
	assert.Equal(t, DecisionSilent, d.Kind)
}

func TestResolveButtonRetriesFromOwningNode(t *testing.T) {
	// User sits past the end of the tree; the engine retries the fallback
	// from the button's own node.
	e := NewEngine(&fakeContent{
		nodes:   []models.ContentNode{node(1, true), node(2, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 1, Text: "again"}},
	})

	d, err := e.ResolveButton(context.Background(), userAt(50), 1)
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(2), d.NodeID)
}

func TestResolveFreeTextCapturesName(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(1, true), node(2, true)}})
	lang := models.LangAz
	user := &models.UserState{ID: 1, Language: &lang}

	d, err := e.ResolveFreeText(context.Background(), user, "Orxan")
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(2), d.NodeID)
	assert.Equal(t, "Orxan", d.CapturedName)
}

func TestResolveFreeTextAnonymousSkipsCapture(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(1, true), node(2, true)}})
	lang := models.LangAz
	user := &models.UserState{ID: 1, Language: &lang, IsAnonymous: true}

	d, err := e.ResolveFreeText(context.Background(), user, "hello")
	require.NoError(t, err)
	assert.Equal(t, DecisionSilent, d.Kind)
	assert.Empty(t, d.CapturedName)
}

func TestResolveFreeTextDefaultNext(t *testing.T) {
	n := node(3, true)
	n.DefaultNextID = i64(models.TerminalID)
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{n}})

	d, err := e.ResolveFreeText(context.Background(), userAt(3), "anything")
	require.NoError(t, err)
	assert.Equal(t, DecisionTerminal, d.Kind)
}

func TestResolveFreeTextWithoutPositionIsSilent(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(1, true)}})
	lang := models.LangAz
	name := "Aysel"
	user := &models.UserState{ID: 1, Language: &lang, DisplayName: &name}

	d, err := e.ResolveFreeText(context.Background(), user, "hi")
	require.NoError(t, err)
	assert.Equal(t, DecisionSilent, d.Kind)
}

func TestResolveGoto(t *testing.T) {
	e := NewEngine(&fakeContent{nodes: []models.ContentNode{node(4, true), node(8, false)}})

	d, err := e.ResolveGoto(context.Background(), models.RootID)
	require.NoError(t, err)
	assert.Equal(t, DecisionRenderRoot, d.Kind)

	d, err = e.ResolveGoto(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, DecisionRender, d.Kind)
	assert.Equal(t, int64(4), d.NodeID)

	// Inactive and missing nodes both fall back to the root menu.
	for _, id := range []int64{8, 123} {
		d, err = e.ResolveGoto(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, DecisionRenderRoot, d.Kind)
	}
}
