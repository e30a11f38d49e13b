package events

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tiletree/pkg/observability"
)

// DefaultPublishTimeout bounds each publish.
const DefaultPublishTimeout = 250 * time.Millisecond

var _ observability.LayoutHooks = (*Hooks)(nil)

// Hooks publishes every layout hook call as an [Event].
type Hooks struct {
	pub     Publisher
	logger  *log.Logger
	timeout time.Duration
	recalc  bool
	now     func() time.Time
}

// Option configures Hooks.
type Option func(*Hooks)

// WithLogger sets the logger publish failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(h *Hooks) { h.logger = l }
}

// WithTimeout sets the per-publish timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Hooks) { h.timeout = d }
}

// WithRecalc enables recalc events, which fire after every geometry pass.
func WithRecalc(on bool) Option {
	return func(h *Hooks) { h.recalc = on }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(h *Hooks) { h.now = now }
}

// NewHooks creates Hooks publishing through pub.
func NewHooks(pub Publisher, opts ...Option) *Hooks {
	h := &Hooks{
		pub:     pub,
		logger:  log.Default(),
		timeout: DefaultPublishTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hooks) OnInsert(workspace int, handle string) {
	h.publish(Event{Type: TypeOpenWindow, Workspace: workspace, Window: handle})
}

func (h *Hooks) OnRemove(workspace int, handle string, collapsed int) {
	h.publish(Event{Type: TypeCloseWindow, Workspace: workspace, Window: handle, Collapsed: collapsed})
}

func (h *Hooks) OnSplit(handle, layout string) {
	h.publish(Event{Type: TypeSplit, Window: handle, Layout: layout})
}

func (h *Hooks) OnRecalc(nodes int, d time.Duration) {
	if !h.recalc {
		return
	}
	h.publish(Event{Type: TypeRecalc, Nodes: nodes, Duration: d.String()})
}

func (h *Hooks) OnFault(code string) {
	h.publish(Event{Type: TypeFault, Code: code})
}

func (h *Hooks) publish(e Event) {
	e.Time = h.now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.pub.Publish(ctx, e); err != nil {
		h.logger.Warn("publish event", "type", e.Type, "error", err)
	}
}
