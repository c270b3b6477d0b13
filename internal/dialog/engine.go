package dialog

import (
	"context"
	"log/slog"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/internal/models"
)

// DecisionKind tags the outcome of a navigation resolution.
type DecisionKind int

const (
	// DecisionRender presents the node identified by NodeID.
	DecisionRender DecisionKind = iota
	// DecisionRenderRoot presents the virtual root menu (tree model).
	DecisionRenderRoot
	// DecisionTerminal ends the conversation without advancing state.
	DecisionTerminal
	// DecisionNoContent means the tree has no active root at all.
	DecisionNoContent
	// DecisionSilent is a deliberate no-op turn: the event is acknowledged
	// and nothing is sent.
	DecisionSilent
)

// Decision is the navigation engine's verdict for one inbound event.
type Decision struct {
	Kind   DecisionKind
	NodeID int64

	// Button carries the pressed button record when the event was a button
	// press, so the controller can log and special-case it.
	Button *models.Button

	// CapturedName is the free text persisted as the user's display name
	// during the legacy name-collection flow.
	CapturedName string
}

// Engine is the dialog traversal state machine. It decides which node to
// present next; it never talks to the transport and never mutates user state.
type Engine struct {
	content ContentStore
}

// NewEngine creates an Engine over the given content tree.
func NewEngine(content ContentStore) *Engine {
	return &Engine{content: content}
}

// ResolveStart enters the flow at the first active root-level node.
func (e *Engine) ResolveStart(ctx context.Context) (Decision, error) {
	root, err := e.content.FirstActiveRoot(ctx)
	if err != nil {
		return Decision{}, err
	}
	if root == nil {
		return Decision{Kind: DecisionNoContent}, nil
	}
	return Decision{Kind: DecisionRender, NodeID: root.ID}, nil
}

// ResolveButton resolves a button press. An unknown button id resolves to a
// silent acknowledgement; a dangling explicit edge degrades to the sequential
// fallback. Content authors rely on that degradation when they delete nodes
// without renumbering.
func (e *Engine) ResolveButton(ctx context.Context, user *models.UserState, buttonID int64) (Decision, error) {
	btn, err := e.content.GetButton(ctx, buttonID)
	if err != nil {
		return Decision{}, err
	}
	if btn == nil {
		logger.Debug(ctx, "dialog", "resolve.button.unknown",
			slog.Int64("button_id", buttonID),
		)
		return Decision{Kind: DecisionSilent}, nil
	}

	ref := int64(0)
	if user.CurrentNodeID != nil {
		ref = *user.CurrentNodeID
	}
	target, ok, err := e.resolveNext(ctx, ref, btn.NextID)
	if err != nil {
		return Decision{}, err
	}
	if !ok && btn.QuestionID != 0 {
		// No candidate after the user's position; retry from the button's
		// owning node.
		target, ok, err = e.resolveNext(ctx, btn.QuestionID, nil)
		if err != nil {
			return Decision{}, err
		}
	}
	if !ok {
		return Decision{Kind: DecisionSilent, Button: btn}, nil
	}
	if target == models.TerminalID {
		return Decision{Kind: DecisionTerminal, Button: btn}, nil
	}
	return Decision{Kind: DecisionRender, NodeID: target, Button: btn}, nil
}

// ResolveFreeText resolves a plain message. The first text from a user with no
// display name is captured as their name and the flow jumps past the lowest
// active node; afterwards the current node's defaultNextId drives the
// transition. Text with no tracked position is an accepted silent no-op.
func (e *Engine) ResolveFreeText(ctx context.Context, user *models.UserState, text string) (Decision, error) {
	if user.NeedsName() {
		root, err := e.content.FirstActiveRoot(ctx)
		if err != nil {
			return Decision{}, err
		}
		if root == nil {
			return Decision{Kind: DecisionNoContent, CapturedName: text}, nil
		}
		next, err := e.content.FirstActiveAfter(ctx, root.ID)
		if err != nil {
			return Decision{}, err
		}
		if next == nil {
			return Decision{Kind: DecisionSilent, CapturedName: text}, nil
		}
		return Decision{Kind: DecisionRender, NodeID: next.ID, CapturedName: text}, nil
	}

	if user.CurrentNodeID == nil {
		return Decision{Kind: DecisionSilent}, nil
	}
	current, err := e.content.GetByID(ctx, *user.CurrentNodeID)
	if err != nil {
		return Decision{}, err
	}
	if current == nil {
		return Decision{Kind: DecisionSilent}, nil
	}
	target, ok, err := e.resolveNext(ctx, current.ID, current.DefaultNextID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Decision{Kind: DecisionSilent}, nil
	}
	if target == models.TerminalID {
		return Decision{Kind: DecisionTerminal}, nil
	}
	return Decision{Kind: DecisionRender, NodeID: target}, nil
}

// ResolveGoto targets a node directly for tree navigation. The root sentinel
// renders the virtual root menu; a vanished node falls back to the root menu
// instead of erroring.
func (e *Engine) ResolveGoto(ctx context.Context, nodeID int64) (Decision, error) {
	if nodeID == models.RootID {
		return Decision{Kind: DecisionRenderRoot}, nil
	}
	node, err := e.content.GetByID(ctx, nodeID)
	if err != nil {
		return Decision{}, err
	}
	if node == nil || !node.IsActive {
		logger.Debug(ctx, "dialog", "resolve.goto.vanished",
			slog.Int64("node_id", nodeID),
		)
		return Decision{Kind: DecisionRenderRoot}, nil
	}
	return Decision{Kind: DecisionRender, NodeID: node.ID}, nil
}

// resolveNext applies the explicit-edge-then-sequential rule shared by button
// and free-text resolution. The terminal sentinel short-circuits; a dangling
// explicit id falls through to the first active node after ref.
func (e *Engine) resolveNext(ctx context.Context, ref int64, explicit *int64) (int64, bool, error) {
	if explicit != nil && *explicit != 0 {
		if *explicit == models.TerminalID {
			return models.TerminalID, true, nil
		}
		node, err := e.content.GetByID(ctx, *explicit)
		if err != nil {
			return 0, false, err
		}
		if node != nil {
			return node.ID, true, nil
		}
		logger.Debug(ctx, "dialog", "resolve.next.dangling",
			slog.Int64("next_id", *explicit),
			slog.Int64("ref", ref),
		)
	}

	next, err := e.content.FirstActiveAfter(ctx, ref)
	if err != nil {
		return 0, false, err
	}
	if next == nil {
		return 0, false, nil
	}
	return next.ID, true, nil
}
