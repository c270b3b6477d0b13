package bot

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/core/telegram/helpers"
	"github.com/zeynale/menubot/core/telegram/keyboard"
	"github.com/zeynale/menubot/internal/dialog"
)

// teleMessenger binds a render plan to the inbound update's reply target.
// One instance lives for exactly one handled update.
type teleMessenger struct {
	c tele.Context
}

func newMessenger(c tele.Context) *teleMessenger {
	return &teleMessenger{c: c}
}

func (m *teleMessenger) SendText(ctx context.Context, body string, buttons [][]dialog.ButtonSpec) error {
	return helpers.SendHTML(m.c, body, markupFor(buttons))
}

func (m *teleMessenger) EditText(ctx context.Context, body string, buttons [][]dialog.ButtonSpec) error {
	return helpers.EditOrSendHTML(m.c, body, markupFor(buttons))
}

func (m *teleMessenger) SendPhoto(ctx context.Context, att dialog.ResolvedAttachment, caption string, buttons [][]dialog.ButtonSpec) error {
	photo := &tele.Photo{File: fileFor(att), Caption: caption}
	if err := helpers.SendPhotoHTML(m.c, photo, markupFor(buttons)); err != nil {
		logger.Warn(ctx, "tg", "send.photo.degrade", slog.String("err", err.Error()))
		return helpers.SendHTML(m.c, caption, markupFor(buttons))
	}
	return nil
}

func (m *teleMessenger) SendDocument(ctx context.Context, att dialog.ResolvedAttachment, caption string, buttons [][]dialog.ButtonSpec) error {
	doc := &tele.Document{File: fileFor(att), Caption: caption, FileName: att.Name}
	if err := helpers.SendDocumentHTML(m.c, doc, markupFor(buttons)); err != nil {
		logger.Warn(ctx, "tg", "send.document.degrade", slog.String("err", err.Error()))
		return helpers.SendHTML(m.c, caption, markupFor(buttons))
	}
	return nil
}

func (m *teleMessenger) Acknowledge(ctx context.Context, toast string) error {
	if m.c.Callback() == nil {
		return nil
	}
	return m.c.Respond(&tele.CallbackResponse{Text: toast})
}

func fileFor(att dialog.ResolvedAttachment) tele.File {
	if att.LocalPath != "" {
		return tele.FromDisk(att.LocalPath)
	}
	return tele.FromURL(att.RemoteURL)
}

func markupFor(buttons [][]dialog.ButtonSpec) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]keyboard.InlineBtn, 0, len(buttons))
	for _, row := range buttons {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			r = append(r, keyboard.InlineBtn{Text: b.Label, Unique: b.Callback, Data: b.Payload})
		}
		rows = append(rows, r)
	}
	return keyboard.InlineButtonsRows(rows...)
}

var _ dialog.Messenger = (*teleMessenger)(nil)
