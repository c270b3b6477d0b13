package dialog

import (
	"context"

	"github.com/zeynale/menubot/internal/models"
)

// ContentStore is the read side of the category/question tree.
// Listing operations filter to active nodes and order by ascending id.
type ContentStore interface {
	GetByID(ctx context.Context, id int64) (*models.ContentNode, error)
	ChildrenOf(ctx context.Context, parentID int64) ([]models.ContentNode, error)
	FirstActiveRoot(ctx context.Context) (*models.ContentNode, error)
	FirstActiveAfter(ctx context.Context, id int64) (*models.ContentNode, error)
	GetButton(ctx context.Context, id int64) (*models.Button, error)
}

// UserStateStore persists per-user session records.
type UserStateStore interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*models.UserState, error)
	SetLanguage(ctx context.Context, userID int64, lang string) error
	SetDisplayName(ctx context.Context, userID int64, name string) error
	SetAnonymous(ctx context.Context, userID int64, placeholder string) error
	SetCurrentNode(ctx context.Context, userID, nodeID int64) error
}

// TranscriptStore appends the per-user message log.
type TranscriptStore interface {
	Append(ctx context.Context, userID int64, sender, text string) error
}

// ButtonSpec is one inline button of a render plan, expressed as a
// transport-agnostic callback key plus payload.
type ButtonSpec struct {
	Label    string
	Callback string
	Payload  string
}

// ResolvedAttachment is a media reference ready for dispatch. Exactly one of
// LocalPath and RemoteURL is set.
type ResolvedAttachment struct {
	Kind      string
	LocalPath string
	RemoteURL string
	Name      string
}

// RenderPlan is the display payload for one outbound bot message. Body uses
// the historical markup subset: bold and anchor tags only.
type RenderPlan struct {
	Body       string
	Buttons    [][]ButtonSpec
	Attachment *ResolvedAttachment

	// PlainText is the unformatted body stored in the transcript.
	PlainText string
}

// Messenger is the abstract outbound transport port. Implementations must
// treat EditText as best effort and fall back to a fresh send when the target
// message can no longer be edited.
type Messenger interface {
	SendText(ctx context.Context, body string, buttons [][]ButtonSpec) error
	SendPhoto(ctx context.Context, att ResolvedAttachment, caption string, buttons [][]ButtonSpec) error
	SendDocument(ctx context.Context, att ResolvedAttachment, caption string, buttons [][]ButtonSpec) error
	EditText(ctx context.Context, body string, buttons [][]ButtonSpec) error
	Acknowledge(ctx context.Context, toast string) error
}
