package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"textlens/internal/llm"
	"textlens/internal/prompt"
	"textlens/internal/render"
)

const (
	LoadingMessage  = "Generating summary..."
	TransportNotice = "Failed to process text. Ensure the inference endpoint is running."

	defaultRequestTimeout = 120 * time.Second
)

var (
	ErrEmptySelection  = errors.New("empty selection")
	ErrChooserNotFound = errors.New("chooser not found")
	ErrNoSession       = errors.New("no matching interaction")
)

// Pipeline owns the single visible interaction and the open chooser. All state
// changes, including late request completions, happen under one lock, so the
// surface sees them in a consistent order.
type Pipeline struct {
	log     *slog.Logger
	client  llm.Client
	catalog *prompt.Catalog
	surface Surface
	timeout time.Duration
	render  func(string) string
	now     func() time.Time

	mu         sync.Mutex
	generation uint64
	current    *Session
	chooser    *Chooser

	inflight sync.WaitGroup
}

// New builds a pipeline. A nil surface discards updates.
func New(log *slog.Logger, client llm.Client, catalog *prompt.Catalog, surface Surface, timeout time.Duration) *Pipeline {
	if surface == nil {
		surface = discardSurface{}
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Pipeline{
		log:     log,
		client:  client,
		catalog: catalog,
		surface: surface,
		timeout: timeout,
		render:  render.Render,
		now:     time.Now,
	}
}

// Catalog returns the templates offered by the chooser.
func (p *Pipeline) Catalog() *prompt.Catalog {
	return p.catalog
}

// OpenChooser opens the template menu for a selection at the pointer position,
// replacing any open menu. An empty selection opens nothing.
func (p *Pipeline) OpenChooser(rawSelection string, x, y int) (Chooser, error) {
	selection := strings.TrimSpace(rawSelection)
	if selection == "" {
		return Chooser{}, ErrEmptySelection
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	c := &Chooser{
		ID:        uuid.New(),
		Selection: selection,
		X:         x,
		Y:         y,
		Templates: p.catalog.All(),
	}
	p.chooser = c
	snapshot := *c
	p.surface.Publish(Update{Kind: UpdateChooser, Chooser: &snapshot})
	return snapshot, nil
}

// DismissChooser closes the menu without starting anything.
func (p *Pipeline) DismissChooser(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chooser == nil || p.chooser.ID != id {
		return ErrChooserNotFound
	}
	p.chooser = nil
	p.surface.Publish(Update{Kind: UpdateChooserClosed})
	return nil
}

// Choose starts an interaction from the open menu's selection. The menu is
// consumed under the lock, so it starts at most one interaction. An unknown
// template leaves the menu open.
func (p *Pipeline) Choose(chooserID uuid.UUID, templateID string) (Session, error) {
	tpl, err := p.catalog.Get(templateID)
	if err != nil {
		return Session{}, err
	}

	p.mu.Lock()
	c := p.chooser
	if c == nil || c.ID != chooserID {
		p.mu.Unlock()
		return Session{}, ErrChooserNotFound
	}
	s := p.begin(tpl, c.Selection)
	p.mu.Unlock()

	p.launch(s)
	return s, nil
}

// Start begins a new interaction, replacing the visible one. The request runs
// in the background; its result is applied only if this interaction is still
// current when it arrives.
func (p *Pipeline) Start(templateID, rawSelection string) (Session, error) {
	selection := strings.TrimSpace(rawSelection)
	if selection == "" {
		return Session{}, ErrEmptySelection
	}
	tpl, err := p.catalog.Get(templateID)
	if err != nil {
		return Session{}, err
	}

	p.mu.Lock()
	s := p.begin(tpl, selection)
	p.mu.Unlock()

	p.launch(s)
	return s, nil
}

// begin replaces the current session and closes any open menu. p.mu must be
// held.
func (p *Pipeline) begin(tpl prompt.Template, selection string) Session {
	p.generation++
	s := &Session{
		ID:         uuid.New(),
		Generation: p.generation,
		TemplateID: tpl.ID,
		Label:      tpl.Label,
		Selection:  selection,
		Prompt:     tpl.Compose(selection),
		State:      Idle,
		StartedAt:  p.now(),
	}
	s.State, _ = Next(s.State, EventStart)
	p.current = s
	if p.chooser != nil {
		p.chooser = nil
		p.surface.Publish(Update{Kind: UpdateChooserClosed})
	}
	p.surface.Publish(sessionUpdate(UpdateLoading, s))
	p.inflight.Add(1)
	return *s
}

func (p *Pipeline) launch(s Session) {
	p.log.Info("interaction started",
		"interaction_id", s.ID,
		"generation", s.Generation,
		"template", s.TemplateID,
		"selection_len", len(s.Selection),
	)
	go p.run(s.Generation, s.Prompt)
}

func (p *Pipeline) run(generation uint64, composed string) {
	defer p.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	text, err := p.client.Generate(ctx, composed)
	p.complete(generation, text, err)
}

func (p *Pipeline) complete(generation uint64, text string, genErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.current
	if cur == nil || cur.Generation != generation || cur.State != Pending {
		p.log.Debug("discarding response for abandoned interaction", "generation", generation)
		return
	}

	next := *cur
	finished := p.now()
	next.FinishedAt = &finished
	elapsed := finished.Sub(next.StartedAt)

	if genErr != nil {
		next.State, _ = Next(next.State, EventFailure)
		next.Err = genErr
		next.Notice = noticeFor(genErr)
		p.current = &next
		p.log.Warn("interaction failed", "interaction_id", next.ID, "err", genErr, "duration_ms", elapsed.Milliseconds())
		p.surface.Publish(sessionUpdate(UpdateError, &next))
		p.surface.Publish(sessionUpdate(UpdateDismiss, &next))
		return
	}

	next.State, _ = Next(next.State, EventSuccess)
	next.Markdown = strings.TrimSpace(text)
	next.HTML = p.render(next.Markdown)
	p.current = &next
	p.log.Info("interaction succeeded", "interaction_id", next.ID, "duration_ms", elapsed.Milliseconds())
	p.surface.Publish(sessionUpdate(UpdateResult, &next))
}

// Close dismisses the visible interaction. uuid.Nil closes whatever is shown.
// A request still in flight keeps running; its response is dropped.
func (p *Pipeline) Close(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.current
	if cur == nil || (id != uuid.Nil && cur.ID != id) {
		return ErrNoSession
	}
	closed := *cur
	closed.State, _ = Next(closed.State, EventClose)
	p.current = nil
	p.log.Info("interaction closed", "interaction_id", closed.ID, "was", cur.State)
	p.surface.Publish(sessionUpdate(UpdateDismiss, &closed))
	return nil
}

// Current returns the visible interaction, if any.
func (p *Pipeline) Current() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return Session{State: Idle}, false
	}
	return *p.current, true
}

// OpenChooserSnapshot returns the open menu, if any.
func (p *Pipeline) OpenChooserSnapshot() (Chooser, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chooser == nil {
		return Chooser{}, false
	}
	return *p.chooser, true
}

// Attach calls join with the updates that reproduce what is shown now: the
// open menu, then the current session. join runs under the pipeline lock, so
// no update is published between the snapshot and join returning. join must
// not call back into the pipeline.
func (p *Pipeline) Attach(join func(replay []Update)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var replay []Update
	if p.chooser != nil {
		c := *p.chooser
		replay = append(replay, Update{Kind: UpdateChooser, Chooser: &c})
	}
	if p.current != nil {
		if u, ok := snapshotUpdate(*p.current); ok {
			replay = append(replay, u)
		}
	}
	join(replay)
}

// Wait blocks until every issued request has completed.
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

func noticeFor(err error) string {
	var me *llm.MalformedResponseError
	switch {
	case llm.IsTransport(err):
		return TransportNotice
	case errors.As(err, &me):
		return "Error processing text: " + me.Reason
	default:
		return "Error processing text: " + err.Error()
	}
}
