package pipeline

import (
	"time"

	"github.com/google/uuid"

	"textlens/internal/prompt"
)

// Session is one interaction: a template applied to a selection. The pipeline
// never edits a published Session; each change produces a new value.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	Generation uint64     `json:"generation"`
	TemplateID string     `json:"template"`
	Label      string     `json:"label"`
	Selection  string     `json:"selection"`
	Prompt     string     `json:"-"`
	State      State      `json:"state"`
	Markdown   string     `json:"markdown,omitempty"`
	HTML       string     `json:"html,omitempty"`
	Notice     string     `json:"notice,omitempty"`
	Err        error      `json:"-"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Chooser is the open template menu for one selection.
type Chooser struct {
	ID        uuid.UUID         `json:"id"`
	Selection string            `json:"selection"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Templates []prompt.Template `json:"templates"`
}

// UpdateKind names a message sent to the display surface.
type UpdateKind string

const (
	UpdateChooser       UpdateKind = "chooser"
	UpdateChooserClosed UpdateKind = "chooser_closed"
	UpdateLoading       UpdateKind = "loading"
	UpdateResult        UpdateKind = "result"
	UpdateError         UpdateKind = "error"
	UpdateDismiss       UpdateKind = "dismiss"
)

// Update is what the display surface host is told to show.
type Update struct {
	Kind          UpdateKind `json:"type"`
	InteractionID string     `json:"interaction_id,omitempty"`
	Generation    uint64     `json:"generation,omitempty"`
	State         string     `json:"state,omitempty"`
	Message       string     `json:"message,omitempty"`
	HTML          string     `json:"html,omitempty"`
	Chooser       *Chooser   `json:"chooser,omitempty"`
}

// Surface receives updates in the order the pipeline produces them.
// Implementations must not call back into the pipeline.
type Surface interface {
	Publish(u Update)
}

type discardSurface struct{}

func (discardSurface) Publish(Update) {}

func sessionUpdate(kind UpdateKind, s *Session) Update {
	u := Update{
		Kind:          kind,
		InteractionID: s.ID.String(),
		Generation:    s.Generation,
		State:         s.State.String(),
	}
	switch kind {
	case UpdateLoading:
		u.Message = LoadingMessage
	case UpdateResult:
		u.HTML = s.HTML
	case UpdateError:
		u.Message = s.Notice
	}
	return u
}

// snapshotUpdate describes how a surface that connects late should show s.
func snapshotUpdate(s Session) (Update, bool) {
	switch s.State {
	case Pending:
		return sessionUpdate(UpdateLoading, &s), true
	case Succeeded:
		return sessionUpdate(UpdateResult, &s), true
	case Failed:
		return sessionUpdate(UpdateError, &s), true
	default:
		return Update{}, false
	}
}
