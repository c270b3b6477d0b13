package bot

import (
	tele "gopkg.in/telebot.v4"

	tg "github.com/zeynale/menubot/core/telegram"
	"github.com/zeynale/menubot/core/telegram/callbacks"
	"github.com/zeynale/menubot/core/telegram/commands"
	"github.com/zeynale/menubot/core/telegram/helpers"
	"github.com/zeynale/menubot/core/telegram/router"
	"github.com/zeynale/menubot/core/telegram/ui"
	"github.com/zeynale/menubot/internal/dialog"
	"github.com/zeynale/menubot/internal/models"
)

// Handler maps Telegram updates onto dialog events and hands them to the
// controller. It owns all registry wiring for the bot.
type Handler struct {
	ctrl *dialog.Controller
}

func NewHandler(ctrl *dialog.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

// Register binds commands, callbacks, and the free text fallback.
func (h *Handler) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.onStart,
		Description: "Başla / Начать",
	})
	_ = reg.RegisterCallback(dialog.CallbackLang, h.onLanguage)
	_ = reg.RegisterCallback(dialog.CallbackButton, h.onButton)
	_ = reg.RegisterCallback(dialog.CallbackGoto, h.onGoto)
	reg.SetTextFallback(h.onText)
	reg.SetCallbackNotFound(h.UnknownCallback())
}

// Routes builds the full route table from the registry.
func (h *Handler) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{NotFound: h.UnknownCallback()}))
	routes = append(routes, router.TextRoutes(nil, reg, router.TextOptions{
		UnknownText:     h.UnknownText(),
		UnknownDocument: h.UnknownDocument(),
	})...)
	return routes
}

func (h *Handler) onStart(c tele.Context) error {
	return h.handle(c, dialog.Event{Kind: dialog.EventStart})
}

func (h *Handler) onLanguage(c tele.Context) error {
	return h.handle(c, dialog.Event{
		Kind:     dialog.EventLanguage,
		Language: callbacks.CallbackPayload(c),
	})
}

func (h *Handler) onButton(c tele.Context) error {
	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{})
	}
	return h.handle(c, dialog.Event{Kind: dialog.EventButton, ButtonID: id})
}

func (h *Handler) onGoto(c tele.Context) error {
	nodeID := int64(models.RootID)
	if p := callbacks.CallbackPayload(c); p != dialog.GotoRootPayload {
		id, err := callbacks.PayloadInt64(c)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{})
		}
		nodeID = id
	}
	return h.handle(c, dialog.Event{Kind: dialog.EventGoto, NodeID: nodeID})
}

func (h *Handler) onText(c tele.Context) error {
	return h.handle(c, dialog.Event{Kind: dialog.EventText, Text: c.Text()})
}

func (h *Handler) handle(c tele.Context, ev dialog.Event) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ev.TelegramID = sender.ID
	ev.Username = sender.Username
	ctx := helpers.BuildContext(c)
	return h.ctrl.HandleEvent(ctx, ev, newMessenger(c))
}

// UnknownText routes stray text through the dialog free text path.
func (h *Handler) UnknownText() tele.HandlerFunc {
	return h.onText
}

// UnknownDocument ignores inbound files, the dialog never asks for any.
func (h *Handler) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error { return nil }
}

// UnknownCallback answers stale keyboards so the client stops spinning.
func (h *Handler) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{})
	}
}

var _ ui.FallbackProvider = (*Handler)(nil)
