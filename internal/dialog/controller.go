package dialog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/internal/models"
)

// Controller orchestrates one inbound event: it loads the user, asks the
// engine for a decision, renders the target node, dispatches it through the
// Messenger, and records the transcript. The per-turn order is fixed:
// send, then transcript, then state; later steps depend on earlier results.
type Controller struct {
	engine     *Engine
	renderer   *Renderer
	content    ContentStore
	users      UserStateStore
	transcript TranscriptStore
}

// NewController wires the dialog core. The Messenger is supplied per turn by
// the transport layer, since replies are bound to the inbound update.
func NewController(engine *Engine, renderer *Renderer, content ContentStore, users UserStateStore, transcript TranscriptStore) *Controller {
	return &Controller{
		engine:     engine,
		renderer:   renderer,
		content:    content,
		users:      users,
		transcript: transcript,
	}
}

// HandleEvent processes one normalized event. Every failure is contained to
// the turn: the error return is for the transport's logging only and never
// leaves user state pointing at an invalid node.
func (c *Controller) HandleEvent(ctx context.Context, ev Event, m Messenger) error {
	user, err := c.users.GetOrCreate(ctx, ev.TelegramID, ev.Username)
	if err != nil {
		return fmt.Errorf("dialog: load user: %w", err)
	}

	switch ev.Kind {
	case EventStart:
		return c.handleStart(ctx, user, m)
	case EventLanguage:
		return c.handleLanguage(ctx, user, ev.Language, m)
	case EventButton:
		return c.handleButton(ctx, user, ev.ButtonID, m)
	case EventGoto:
		return c.handleGoto(ctx, user, ev.NodeID, m)
	case EventText:
		return c.handleText(ctx, user, ev.Text, m)
	default:
		return fmt.Errorf("dialog: unknown event kind %d", ev.Kind)
	}
}

func (c *Controller) handleStart(ctx context.Context, user *models.UserState, m Messenger) error {
	if !user.HasLanguage() {
		return m.SendText(ctx, LanguagePrompt, LanguageButtons())
	}
	decision, err := c.engine.ResolveStart(ctx)
	if err != nil {
		return err
	}
	return c.dispatch(ctx, user, decision, m, false)
}

func (c *Controller) handleLanguage(ctx context.Context, user *models.UserState, lang string, m Messenger) error {
	if lang != models.LangAz && lang != models.LangRu {
		return m.Acknowledge(ctx, "")
	}
	if err := c.users.SetLanguage(ctx, user.ID, lang); err != nil {
		return err
	}
	user.Language = &lang
	if err := m.Acknowledge(ctx, phrasesFor(lang).langChosen); err != nil {
		logger.Warn(ctx, "dialog", "ack.fail", slog.String("err", err.Error()))
	}
	decision, err := c.engine.ResolveStart(ctx)
	if err != nil {
		return err
	}
	return c.dispatch(ctx, user, decision, m, false)
}

func (c *Controller) handleButton(ctx context.Context, user *models.UserState, buttonID int64, m Messenger) error {
	decision, err := c.engine.ResolveButton(ctx, user, buttonID)
	if err != nil {
		return err
	}

	toast := ""
	if btn := decision.Button; btn != nil {
		if err := c.transcript.Append(ctx, user.ID, models.SenderUser, "[Button]: "+btn.Text); err != nil {
			logger.Warn(ctx, "dialog", "transcript.fail", slog.String("err", err.Error()))
		}
		if btn.Text == AnonymousLabel {
			if err := c.users.SetAnonymous(ctx, user.ID, "Anonim"); err != nil {
				return err
			}
			user.IsAnonymous = true
			toast = phrasesFor(user.Lang()).anonChosen
		}
	}
	if err := m.Acknowledge(ctx, toast); err != nil {
		logger.Warn(ctx, "dialog", "ack.fail", slog.String("err", err.Error()))
	}

	return c.dispatch(ctx, user, decision, m, false)
}

func (c *Controller) handleGoto(ctx context.Context, user *models.UserState, nodeID int64, m Messenger) error {
	decision, err := c.engine.ResolveGoto(ctx, nodeID)
	if err != nil {
		return err
	}
	if err := m.Acknowledge(ctx, ""); err != nil {
		logger.Warn(ctx, "dialog", "ack.fail", slog.String("err", err.Error()))
	}
	// Tree navigation edits the menu message in place.
	return c.dispatch(ctx, user, decision, m, true)
}

func (c *Controller) handleText(ctx context.Context, user *models.UserState, text string, m Messenger) error {
	if err := c.transcript.Append(ctx, user.ID, models.SenderUser, text); err != nil {
		logger.Warn(ctx, "dialog", "transcript.fail", slog.String("err", err.Error()))
	}

	decision, err := c.engine.ResolveFreeText(ctx, user, text)
	if err != nil {
		return err
	}
	if decision.CapturedName != "" {
		if err := c.users.SetDisplayName(ctx, user.ID, decision.CapturedName); err != nil {
			return err
		}
		name := decision.CapturedName
		user.DisplayName = &name
	}
	return c.dispatch(ctx, user, decision, m, false)
}

// dispatch turns a decision into outbound traffic plus state/transcript
// writes. Terminal and no-content decisions never advance currentNodeId.
func (c *Controller) dispatch(ctx context.Context, user *models.UserState, decision Decision, m Messenger, edit bool) error {
	p := phrasesFor(user.Lang())
	switch decision.Kind {
	case DecisionSilent:
		return nil
	case DecisionTerminal:
		if err := m.SendText(ctx, p.endedThanks, nil); err != nil {
			return err
		}
		c.logBotMessage(ctx, user, p.endedThanks)
		return nil
	case DecisionNoContent:
		if err := m.SendText(ctx, p.inactive, nil); err != nil {
			return err
		}
		c.logBotMessage(ctx, user, p.inactive)
		return nil
	case DecisionRenderRoot:
		children, err := c.content.ChildrenOf(ctx, models.RootID)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			if err := m.SendText(ctx, p.inactive, nil); err != nil {
				return err
			}
			c.logBotMessage(ctx, user, p.inactive)
			return nil
		}
		plan := c.renderer.RenderRoot(children, user.Lang())
		return c.deliver(ctx, user, plan, nil, m, edit)
	case DecisionRender:
		return c.renderNode(ctx, user, decision.NodeID, m, edit)
	default:
		return fmt.Errorf("dialog: unknown decision kind %d", decision.Kind)
	}
}

func (c *Controller) renderNode(ctx context.Context, user *models.UserState, nodeID int64, m Messenger, edit bool) error {
	p := phrasesFor(user.Lang())
	node, err := c.content.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}
	if node == nil || !node.IsActive {
		if err := m.SendText(ctx, p.notFound, nil); err != nil {
			return err
		}
		c.logBotMessage(ctx, user, p.notFound)
		return nil
	}

	children, err := c.content.ChildrenOf(ctx, node.ID)
	if err != nil {
		return err
	}
	plan := c.renderer.Render(node, children, user.Lang())
	if plan.Attachment == nil && node.AttachmentRaw != nil && *node.AttachmentRaw != "" {
		logger.Warn(ctx, "dialog", "attachment.skipped",
			slog.Int64("node_id", node.ID),
		)
	}
	return c.deliver(ctx, user, plan, node, m, edit)
}

// deliver sends the plan, appends the bot transcript entry, and persists the
// user's position, in that order. A failed send is logged and ends the turn
// without the follow-up writes; the user can always recover via start.
func (c *Controller) deliver(ctx context.Context, user *models.UserState, plan RenderPlan, node *models.ContentNode, m Messenger, edit bool) error {
	var err error
	switch {
	case plan.Attachment != nil && plan.Attachment.Kind == models.AttachmentImage:
		err = m.SendPhoto(ctx, *plan.Attachment, plan.Body, plan.Buttons)
	case plan.Attachment != nil:
		err = m.SendDocument(ctx, *plan.Attachment, plan.Body, plan.Buttons)
	case edit:
		err = m.EditText(ctx, plan.Body, plan.Buttons)
	default:
		err = m.SendText(ctx, plan.Body, plan.Buttons)
	}
	if err != nil {
		logger.Error(ctx, "dialog", "send.fail",
			slog.String("err", err.Error()),
		)
		return err
	}

	c.logBotMessage(ctx, user, plan.PlainText)

	if node != nil {
		if err := c.users.SetCurrentNode(ctx, user.ID, node.ID); err != nil {
			logger.Warn(ctx, "dialog", "state.persist.fail",
				slog.Int64("node_id", node.ID),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

func (c *Controller) logBotMessage(ctx context.Context, user *models.UserState, text string) {
	if text == "" {
		return
	}
	if err := c.transcript.Append(ctx, user.ID, models.SenderBot, text); err != nil {
		logger.Warn(ctx, "dialog", "transcript.fail", slog.String("err", err.Error()))
	}
}
