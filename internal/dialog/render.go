package dialog

import (
	"fmt"
	"html"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeynale/menubot/core/telegram/format"
	"github.com/zeynale/menubot/internal/models"
)

// Renderer variants. The tree model is canonical; the flat model reproduces
// the historical one-button-per-record flow.
const (
	VariantTree = "tree"
	VariantFlat = "flat"
)

const (
	// maxBodyLen is the Telegram message size limit applied to menu bodies.
	maxBodyLen = 4096
	// menuColumns is the fixed chunk width of numeric menu button rows.
	menuColumns = 5
)

// RenderOptions tune the pure rendering function.
type RenderOptions struct {
	// Variant selects the tree or flat rendering strategy.
	Variant string
	// UploadsDir is the local directory that /uploads URLs resolve against.
	UploadsDir string
}

// Renderer maps a content node plus language to a display payload. It holds
// no mutable state and performs no I/O; callers supply the node's active
// children.
type Renderer struct {
	opts RenderOptions
}

// NewRenderer creates a Renderer; an empty variant defaults to the tree model.
func NewRenderer(opts RenderOptions) *Renderer {
	if opts.Variant == "" {
		opts.Variant = VariantTree
	}
	return &Renderer{opts: opts}
}

// Variant reports the active rendering strategy.
func (r *Renderer) Variant() string { return r.opts.Variant }

// RenderRoot builds the virtual root menu from the top-level categories.
func (r *Renderer) RenderRoot(children []models.ContentNode, lang string) RenderPlan {
	p := phrasesFor(lang)
	plan := r.menuPlan(p.rootTitle, children, lang, nil)
	plan.PlainText = p.rootTitle
	return plan
}

// Render builds the display payload for one node. A node with at least one
// active child renders as a menu; otherwise as a leaf answer.
func (r *Renderer) Render(node *models.ContentNode, children []models.ContentNode, lang string) RenderPlan {
	if r.opts.Variant == VariantFlat {
		return r.renderFlat(node, lang)
	}
	if len(children) > 0 {
		title := localizedText(node, lang)
		plan := r.menuPlan(title, children, lang, node)
		plan.PlainText = title
		return plan
	}
	return r.renderLeaf(node, lang)
}

// renderLeaf produces bold title + blank line + link-rewritten answer, or the
// bold link-rewritten title alone when the node has no answer body.
func (r *Renderer) renderLeaf(node *models.ContentNode, lang string) RenderPlan {
	title := localizedText(node, lang)
	answer := localizedAnswer(node, lang)
	marker := markerFor(node, lang)

	var body string
	if answer != "" {
		body = "<b>" + html.EscapeString(title) + "</b>\n\n" + r.linkified(node, answer, marker)
	} else {
		body = "<b>" + r.linkified(node, title, marker) + "</b>"
	}

	plan := RenderPlan{
		Body:       body,
		Buttons:    r.navButtons(node, lang),
		Attachment: resolveAttachment(node, r.opts.UploadsDir),
	}
	if answer != "" {
		plan.PlainText = title + "\n\n" + answer
	} else {
		plan.PlainText = title
	}
	return plan
}

// renderFlat reproduces the legacy flow: bold title, link rewriting, one
// bold-unicode button per explicit Button record.
func (r *Renderer) renderFlat(node *models.ContentNode, lang string) RenderPlan {
	title := localizedText(node, lang)
	marker := markerFor(node, lang)
	body := "<b>" + r.linkified(node, title, marker) + "</b>"

	buttons := make([][]ButtonSpec, 0, len(node.Buttons))
	for _, btn := range node.Buttons {
		label := btn.Text
		if lang == models.LangRu {
			if ru := format.DerefString(btn.TextRu, ""); ru != "" {
				label = ru
			}
		}
		buttons = append(buttons, []ButtonSpec{{
			Label:    format.BoldSans(label),
			Callback: CallbackButton,
			Payload:  strconv.FormatInt(btn.ID, 10),
		}})
	}

	return RenderPlan{
		Body:       body,
		Buttons:    buttons,
		Attachment: resolveAttachment(node, r.opts.UploadsDir),
		PlainText:  title,
	}
}

// menuPlan renders a numbered list body with grouped numeric buttons. node is
// nil for the virtual root.
func (r *Renderer) menuPlan(title string, children []models.ContentNode, lang string, node *models.ContentNode) RenderPlan {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(title) + "</b>\n")
	for i, child := range children {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, html.EscapeString(localizedText(&child, lang))))
	}
	body := truncate(b.String(), maxBodyLen)

	var row []ButtonSpec
	var rows [][]ButtonSpec
	for i, child := range children {
		row = append(row, ButtonSpec{
			Label:    strconv.Itoa(i + 1),
			Callback: CallbackGoto,
			Payload:  strconv.FormatInt(child.ID, 10),
		})
		if len(row) == menuColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, r.navButtons(node, lang)...)

	return RenderPlan{Body: body, Buttons: rows}
}

// navButtons appends back and home controls for every view except the root
// menu itself. Back targets the parent, or the root when the parent is the
// tree top.
func (r *Renderer) navButtons(node *models.ContentNode, lang string) [][]ButtonSpec {
	if node == nil || r.opts.Variant == VariantFlat {
		return nil
	}
	p := phrasesFor(lang)
	backPayload := GotoRootPayload
	if node.ParentID != nil && *node.ParentID != models.RootID {
		backPayload = strconv.FormatInt(*node.ParentID, 10)
	}
	row := []ButtonSpec{
		{Label: p.backLabel, Callback: CallbackGoto, Payload: backPayload},
	}
	if backPayload != GotoRootPayload {
		row = append(row, ButtonSpec{Label: p.homeLabel, Callback: CallbackGoto, Payload: GotoRootPayload})
	}
	return [][]ButtonSpec{row}
}

func (r *Renderer) linkified(node *models.ContentNode, text, marker string) string {
	escaped := html.EscapeString(text)
	link := format.DerefString(node.ExternalLink, "")
	if link == "" {
		return escaped
	}
	return Linkify(escaped, marker, link)
}

// localizedText picks textRu only under the ru locale and only when non-empty.
func localizedText(node *models.ContentNode, lang string) string {
	if lang == models.LangRu {
		if ru := format.DerefString(node.TextRu, ""); ru != "" {
			return ru
		}
	}
	return node.Text
}

func localizedAnswer(node *models.ContentNode, lang string) string {
	if lang == models.LangRu {
		if ru := format.DerefString(node.AnswerRu, ""); ru != "" {
			return ru
		}
	}
	return format.DerefString(node.Answer, "")
}

// markerFor resolves the link marker word: per-node override first, then the
// locale default.
func markerFor(node *models.ContentNode, lang string) string {
	if lang == models.LangRu {
		if ru := format.DerefString(node.LinkTextRu, ""); ru != "" {
			return ru
		}
	}
	if v := format.DerefString(node.LinkText, ""); v != "" {
		return v
	}
	return phrasesFor(lang).marker
}

// resolveAttachment maps the stored descriptor to a dispatchable reference.
// Unparseable descriptors and client-only blob references degrade to text.
func resolveAttachment(node *models.ContentNode, uploadsDir string) *ResolvedAttachment {
	att, err := node.Attachment()
	if err != nil || att == nil {
		return nil
	}
	switch {
	case strings.HasPrefix(att.URL, "/uploads"):
		rel := strings.TrimPrefix(att.URL, "/uploads")
		return &ResolvedAttachment{
			Kind:      att.Kind,
			LocalPath: filepath.Join(uploadsDir, filepath.FromSlash(rel)),
			Name:      att.Name,
		}
	case strings.HasPrefix(att.URL, "blob:"):
		// Client-only temporary reference saved by an older dashboard build;
		// nothing server-side can fetch it.
		return nil
	default:
		return &ResolvedAttachment{Kind: att.Kind, RemoteURL: att.URL, Name: att.Name}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
