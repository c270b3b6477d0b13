package dialog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeynale/menubot/internal/models"
)

type opLog struct {
	ops []string
}

func (l *opLog) add(format string, args ...any) {
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

type fakeUsers struct {
	log      *opLog
	user     *models.UserState
	stateErr error
}

func (f *fakeUsers) GetOrCreate(_ context.Context, _ int64, _ string) (*models.UserState, error) {
	u := *f.user
	return &u, nil
}

func (f *fakeUsers) SetLanguage(_ context.Context, _ int64, lang string) error {
	f.log.add("setLanguage:%s", lang)
	f.user.Language = &lang
	return nil
}

func (f *fakeUsers) SetDisplayName(_ context.Context, _ int64, name string) error {
	f.log.add("setName:%s", name)
	f.user.DisplayName = &name
	return nil
}

func (f *fakeUsers) SetAnonymous(_ context.Context, _ int64, placeholder string) error {
	f.log.add("setAnonymous:%s", placeholder)
	f.user.IsAnonymous = true
	return nil
}

func (f *fakeUsers) SetCurrentNode(_ context.Context, _ int64, nodeID int64) error {
	if f.stateErr != nil {
		return f.stateErr
	}
	f.log.add("state:%d", nodeID)
	f.user.CurrentNodeID = &nodeID
	return nil
}

type fakeTranscript struct {
	log *opLog
}

func (f *fakeTranscript) Append(_ context.Context, _ int64, sender, text string) error {
	f.log.add("transcript:%s:%s", sender, text)
	return nil
}

type fakeMessenger struct {
	log     *opLog
	bodies  []string
	buttons [][][]ButtonSpec
	edits   int
	sendErr error
}

func (m *fakeMessenger) record(kind, body string, buttons [][]ButtonSpec) {
	m.log.add("send:%s", kind)
	m.bodies = append(m.bodies, body)
	m.buttons = append(m.buttons, buttons)
}

func (m *fakeMessenger) SendText(_ context.Context, body string, buttons [][]ButtonSpec) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.record("text", body, buttons)
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, _ ResolvedAttachment, caption string, buttons [][]ButtonSpec) error {
	m.record("photo", caption, buttons)
	return nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, _ ResolvedAttachment, caption string, buttons [][]ButtonSpec) error {
	m.record("document", caption, buttons)
	return nil
}

func (m *fakeMessenger) EditText(_ context.Context, body string, buttons [][]ButtonSpec) error {
	m.edits++
	m.record("edit", body, buttons)
	return nil
}

func (m *fakeMessenger) Acknowledge(_ context.Context, toast string) error {
	m.log.add("ack:%s", toast)
	return nil
}

type fixture struct {
	log        *opLog
	content    *fakeContent
	users      *fakeUsers
	transcript *fakeTranscript
	messenger  *fakeMessenger
	ctrl       *Controller
}

func newFixture(content *fakeContent, user *models.UserState) *fixture {
	log := &opLog{}
	users := &fakeUsers{log: log, user: user}
	transcript := &fakeTranscript{log: log}
	engine := NewEngine(content)
	renderer := NewRenderer(RenderOptions{Variant: VariantTree})
	return &fixture{
		log:        log,
		content:    content,
		users:      users,
		transcript: transcript,
		messenger:  &fakeMessenger{log: log},
		ctrl:       NewController(engine, renderer, content, users, transcript),
	}
}

func (f *fixture) handle(t *testing.T, ev Event) {
	t.Helper()
	ev.TelegramID = 1000
	require.NoError(t, f.ctrl.HandleEvent(context.Background(), ev, f.messenger))
}

func TestStartLanguageGate(t *testing.T) {
	f := newFixture(&fakeContent{}, &models.UserState{ID: 1})

	f.handle(t, Event{Kind: EventStart})

	require.Len(t, f.messenger.bodies, 1)
	assert.Equal(t, LanguagePrompt, f.messenger.bodies[0])
	require.Len(t, f.messenger.buttons[0], 1)
	assert.Equal(t, CallbackLang, f.messenger.buttons[0][0][0].Callback)
	assert.Equal(t, models.LangAz, f.messenger.buttons[0][0][0].Payload)
}

func TestLanguageSelectionEntersFlow(t *testing.T) {
	content := &fakeContent{nodes: []models.ContentNode{node(1, true)}}
	f := newFixture(content, &models.UserState{ID: 1})

	f.handle(t, Event{Kind: EventLanguage, Language: models.LangRu})

	assert.Contains(t, f.log.ops, "setLanguage:ru")
	assert.Contains(t, f.log.ops, "ack:Выбран русский язык.")
	require.Len(t, f.messenger.bodies, 1)
	// First active node is rendered, then the position is persisted.
	assert.Contains(t, f.log.ops, "state:1")
}

func TestLanguageSelectionInvalidPayload(t *testing.T) {
	f := newFixture(&fakeContent{}, &models.UserState{ID: 1})

	f.handle(t, Event{Kind: EventLanguage, Language: "xx"})

	assert.Equal(t, []string{"ack:"}, f.log.ops)
	assert.Empty(t, f.messenger.bodies)
}

func TestButtonPressOrdering(t *testing.T) {
	content := &fakeContent{
		nodes:   []models.ContentNode{node(4, true), node(5, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 4, Text: "Davam", NextID: i64(5)}},
	}
	f := newFixture(content, userAt(4))

	f.handle(t, Event{Kind: EventButton, ButtonID: 1})

	require.Equal(t, []string{
		"transcript:user:[Button]: Davam",
		"ack:",
		"send:text",
		"transcript:bot:n",
		"state:5",
	}, f.log.ops)
}

func TestAnonymousButton(t *testing.T) {
	content := &fakeContent{
		nodes:   []models.ContentNode{node(4, true), node(5, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 4, Text: AnonymousLabel, NextID: i64(5)}},
	}
	f := newFixture(content, userAt(4))

	f.handle(t, Event{Kind: EventButton, ButtonID: 1})

	assert.Contains(t, f.log.ops, "setAnonymous:Anonim")
	assert.Contains(t, f.log.ops, "ack:Anonim rejim seçildi.")
	assert.Contains(t, f.log.ops, "transcript:user:[Button]: ANONİM")
}

func TestTerminalDoesNotAdvanceState(t *testing.T) {
	content := &fakeContent{
		nodes:   []models.ContentNode{node(4, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 4, Text: "Son", NextID: i64(models.TerminalID)}},
	}
	f := newFixture(content, userAt(4))

	f.handle(t, Event{Kind: EventButton, ButtonID: 1})

	require.Len(t, f.messenger.bodies, 1)
	assert.Equal(t, "Söhbət bitdi. Təşəkkürlər!", f.messenger.bodies[0])
	for _, op := range f.log.ops {
		assert.NotContains(t, op, "state:")
	}
}

func TestSendFailureSkipsFollowUpWrites(t *testing.T) {
	content := &fakeContent{
		nodes:   []models.ContentNode{node(4, true), node(5, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 4, Text: "Davam", NextID: i64(5)}},
	}
	f := newFixture(content, userAt(4))
	f.messenger.sendErr = errors.New("forbidden: bot was blocked by the user")

	err := f.ctrl.HandleEvent(context.Background(),
		Event{Kind: EventButton, ButtonID: 1, TelegramID: 1000}, f.messenger)

	require.Error(t, err)
	// The inbound side of the turn already happened; nothing after the send may.
	assert.Contains(t, f.log.ops, "transcript:user:[Button]: Davam")
	for _, op := range f.log.ops {
		assert.NotContains(t, op, "transcript:bot:")
		assert.NotContains(t, op, "state:")
	}
}

func TestStatePersistFailureKeepsTurn(t *testing.T) {
	content := &fakeContent{
		nodes:   []models.ContentNode{node(4, true), node(5, true)},
		buttons: []models.Button{{ID: 1, QuestionID: 4, Text: "Davam", NextID: i64(5)}},
	}
	f := newFixture(content, userAt(4))
	f.users.stateErr = errors.New("pool exhausted")

	f.handle(t, Event{Kind: EventButton, ButtonID: 1})

	// The user saw the node and the transcript recorded it; only the position
	// write was lost.
	assert.Contains(t, f.log.ops, "send:text")
	assert.Contains(t, f.log.ops, "transcript:bot:n")
	for _, op := range f.log.ops {
		assert.NotContains(t, op, "state:")
	}
}

func TestUnknownButtonIsSilent(t *testing.T) {
	f := newFixture(&fakeContent{nodes: []models.ContentNode{node(4, true)}}, userAt(4))

	f.handle(t, Event{Kind: EventButton, ButtonID: 77})

	assert.Empty(t, f.messenger.bodies)
	assert.Equal(t, []string{"ack:"}, f.log.ops)
}

func TestFreeTextCapturesName(t *testing.T) {
	content := &fakeContent{nodes: []models.ContentNode{node(1, true), node(2, true)}}
	lang := models.LangAz
	f := newFixture(content, &models.UserState{ID: 1, Language: &lang})

	f.handle(t, Event{Kind: EventText, Text: "Orxan"})

	assert.Contains(t, f.log.ops, "transcript:user:Orxan")
	assert.Contains(t, f.log.ops, "setName:Orxan")
	assert.Contains(t, f.log.ops, "state:2")
}

func TestGotoRootEditsInPlace(t *testing.T) {
	content := &fakeContent{nodes: []models.ContentNode{node(1, true), node(2, true)}}
	f := newFixture(content, userAt(1))

	f.handle(t, Event{Kind: EventGoto, NodeID: models.RootID})

	assert.Equal(t, 1, f.messenger.edits)
	require.Len(t, f.messenger.bodies, 1)
	assert.Contains(t, f.messenger.bodies[0], "Əsas menyu")
}

func TestGotoEmptyRootReportsInactive(t *testing.T) {
	f := newFixture(&fakeContent{}, userAt(1))

	f.handle(t, Event{Kind: EventGoto, NodeID: models.RootID})

	require.Len(t, f.messenger.bodies, 1)
	assert.Equal(t, "Bot hal-hazırda aktiv deyil.", f.messenger.bodies[0])
}
