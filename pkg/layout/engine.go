package layout

import (
	"github.com/charmbracelet/log"

	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// =============================================================================
// Host view
// =============================================================================

// FullscreenMode distinguishes a true fullscreen window from one that is
// maximized inside the usable monitor area.
type FullscreenMode int

const (
	FullscreenFull FullscreenMode = iota
	FullscreenMaximized
)

// Window is the host's description of a window at the time of a query.
type Window struct {
	Handle         tree.WindowHandle
	Workspace      tree.WorkspaceID
	Mapped         bool
	Floating       bool
	Hidden         bool
	Fullscreen     bool
	FullscreenMode FullscreenMode
}

// Tileable reports whether the window should hold a leaf after a rebuild.
func (w Window) Tileable() bool {
	return w.Mapped && !w.Hidden && !w.Floating
}

// Monitor is a physical output. Reserved areas are the space taken by
// panels and bars along each edge.
type Monitor struct {
	ID                  int
	Name                string
	Position            tree.Vec
	Size                tree.Vec
	ReservedTopLeft     tree.Vec
	ReservedBottomRight tree.Vec
}

// Rect returns the monitor's full rectangle.
func (m Monitor) Rect() tree.Rect {
	return tree.Rect{Pos: m.Position, Size: m.Size}
}

// UsableRect returns the monitor rectangle minus reserved areas.
func (m Monitor) UsableRect() tree.Rect {
	return tree.Rect{
		Pos:  m.Position.Add(m.ReservedTopLeft),
		Size: m.Size.Sub(m.ReservedTopLeft).Sub(m.ReservedBottomRight),
	}
}

// =============================================================================
// Collaborators
// =============================================================================

// Windows enumerates and describes host windows.
type Windows interface {
	// Window returns the current state of h, or false if the host no longer
	// knows it.
	Window(h tree.WindowHandle) (Window, bool)
	// Windows returns every window in host enumeration order.
	Windows() []Window
}

// Monitors resolves the output a workspace is shown on.
type Monitors interface {
	MonitorFor(ws tree.WorkspaceID) (Monitor, bool)
	IsSpecialWorkspace(ws tree.WorkspaceID) bool
}

// Focus supplies the reference windows used when inserting.
type Focus interface {
	LastFocused() (tree.WindowHandle, bool)
	WindowUnderPointer() (tree.WindowHandle, bool)
}

// Fullscreen queries and clears a window's fullscreen state.
type Fullscreen interface {
	IsFullscreen(h tree.WindowHandle) bool
	ClearFullscreen(h tree.WindowHandle)
}

// Decorations restores a window's border, rounding and decoration flags to
// their defaults.
type Decorations interface {
	ResetDecorations(h tree.WindowHandle)
}

// PlacementRequest carries a leaf's final rect to the placement collaborator.
type PlacementRequest struct {
	Window    tree.WindowHandle
	Workspace tree.WorkspaceID
	Rect      tree.Rect
	// TiledCount is the number of tiled windows on the workspace.
	TiledCount int
	// Force asks for the window to jump to its rect instead of animating.
	Force bool
}

// Placement turns a leaf's rect into the window's rendered geometry.
//
// An error whose code is INVALID_WINDOW_HANDLE makes the engine remove the
// window. ORPHANED_NODE and any other error are logged and the pass
// continues with the next leaf.
type Placement interface {
	ApplyLeafGeometry(req PlacementRequest) error
}

// Collaborators bundles the host interfaces an Engine depends on. A single
// host type commonly implements all of them.
type Collaborators struct {
	Windows     Windows
	Monitors    Monitors
	Focus       Focus
	Fullscreen  Fullscreen
	Decorations Decorations
	Placement   Placement
}

// =============================================================================
// Engine
// =============================================================================

// Engine owns the node tree of every workspace and applies host events to it.
type Engine struct {
	store  *tree.Store
	host   Collaborators
	logger *log.Logger
	hooks  observability.LayoutHooks

	// depth counts nested geometry passes. Windows found dead while
	// depth > 0 are queued in pending and removed once it drops to zero.
	depth    int
	pending  []tree.WindowHandle
	draining bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for faults and debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks sets the hooks notified of mutations and faults. Without it the
// engine uses [observability.Layout].
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithStore makes the engine operate on s instead of a fresh store.
func WithStore(s *tree.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// New creates an Engine over the given host collaborators.
func New(host Collaborators, opts ...Option) *Engine {
	e := &Engine{
		store:  tree.New(),
		host:   host,
		logger: log.Default(),
		hooks:  observability.Layout(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's node store. Callers may read it but must not
// mutate it.
func (e *Engine) Store() *tree.Store { return e.store }

// IsTiled reports whether h currently holds a leaf.
func (e *Engine) IsTiled(h tree.WindowHandle) bool {
	_, ok := e.store.FindByWindow(h)
	return ok
}

// Enable rebuilds the tree from scratch by inserting every tileable window
// in host enumeration order.
func (e *Engine) Enable() {
	e.store.Reset()
	e.pending = nil
	for _, w := range e.host.Windows.Windows() {
		if !w.Tileable() {
			continue
		}
		e.OnWindowCreated(w.Handle)
	}
	e.logger.Debug("layout enabled", "nodes", e.store.Len())
}

// Disable drops the tree. Windows keep whatever geometry they last received.
func (e *Engine) Disable() {
	e.store.Reset()
	e.pending = nil
	e.logger.Debug("layout disabled")
}

func (e *Engine) fault(code terrors.Code, msg string, keyvals ...any) {
	e.logger.Error(msg, append(keyvals, "code", code)...)
	e.hooks.OnFault(string(code))
}
