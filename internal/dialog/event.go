package dialog

// EventKind tags the normalized inbound event union.
type EventKind int

const (
	// EventStart is the /start command.
	EventStart EventKind = iota
	// EventLanguage is a language-selection callback.
	EventLanguage
	// EventButton is an explicit content button press (flat model).
	EventButton
	// EventGoto is a tree-navigation callback targeting a node or the root.
	EventGoto
	// EventText is a free-text message.
	EventText
)

// Event is one normalized inbound user action. The transport layer maps raw
// platform updates into this union; the controller never sees the wire format.
type Event struct {
	Kind       EventKind
	TelegramID int64
	Username   string

	// Language is set for EventLanguage.
	Language string
	// ButtonID is set for EventButton.
	ButtonID int64
	// NodeID is set for EventGoto; models.RootID targets the root menu.
	NodeID int64
	// Text is set for EventText.
	Text string
}
