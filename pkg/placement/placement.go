// Package placement turns a leaf's logical rect into the rendered window
// geometry: borders, inner and outer gaps, and the window's own reserved
// decoration area.
//
// [Applier] implements layout.Placement on top of a host [Surface]. The
// arithmetic lives in [Compute] so it can be used without a host.
package placement

import (
	"math"

	"github.com/matzehuels/tiletree/pkg/config"
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// stickDistance is how close (in pixels) an edge must be to the monitor's
// usable edge to count as touching it.
const stickDistance = 2

// Decorations are the per-window render flags a layout controls.
type Decorations struct {
	Rounding bool
	Border   bool
	Decorate bool
}

// AllDecorations is the default flag set.
var AllDecorations = Decorations{Rounding: true, Border: true, Decorate: true}

// Reserved is space a window's own decorations take along its edges.
type Reserved struct {
	TopLeft     tree.Vec
	BottomRight tree.Vec
}

// Geometry is the result of placing one window.
type Geometry struct {
	Logical     tree.Rect
	Rendered    tree.Rect
	Decorations Decorations
	// Warp makes the window jump to Rendered instead of animating.
	Warp bool
}

// Surface is the host side of placement.
type Surface interface {
	// Window describes h, or reports false if it no longer exists.
	Window(h tree.WindowHandle) (layout.Window, bool)
	// ReservedArea returns the space h's decorations need.
	ReservedArea(h tree.WindowHandle) Reserved
	// SetGeometry applies the computed geometry to h.
	SetGeometry(h tree.WindowHandle, g Geometry)
}

// Settings are the config values placement reads.
type Settings struct {
	BorderSize     float64
	GapsIn         float64
	GapsOut        float64
	NoGapsWhenOnly bool
}

// SettingsFrom extracts placement settings from a loaded config.
func SettingsFrom(c config.Config) Settings {
	return Settings{
		BorderSize:     float64(c.General.BorderSize),
		GapsIn:         float64(c.General.GapsIn),
		GapsOut:        float64(c.General.GapsOut),
		NoGapsWhenOnly: c.Tiling.NoGapsWhenOnly,
	}
}

// Input is everything [Compute] needs for one window.
type Input struct {
	Logical tree.Rect
	// Usable is the monitor rect minus its reserved areas.
	Usable         tree.Rect
	Special        bool
	TiledCount     int
	Fullscreen     bool
	FullscreenMode layout.FullscreenMode
	Reserved       Reserved
	Force          bool
}

// Compute returns the geometry for one window.
//
// With NoGapsWhenOnly set, a window on a regular workspace that is either the
// only tiled window or maximized-fullscreen fills its logical rect exactly
// and loses its decorations. Otherwise the border is subtracted on every
// side, edges touching the usable monitor area are inset by GapsOut and the
// others by GapsIn, and finally the window's reserved area is taken off.
func Compute(s Settings, in Input) Geometry {
	g := Geometry{Logical: in.Logical, Warp: in.Force}

	if s.NoGapsWhenOnly && !in.Special &&
		(in.TiledCount == 1 || (in.Fullscreen && in.FullscreenMode == layout.FullscreenMaximized)) {
		g.Rendered = in.Logical
		return g
	}

	g.Decorations = AllDecorations

	l := in.Logical
	left := sticks(l.Pos.X, in.Usable.Pos.X)
	right := sticks(l.Right(), in.Usable.Right())
	top := sticks(l.Pos.Y, in.Usable.Pos.Y)
	bottom := sticks(l.Bottom(), in.Usable.Bottom())

	topLeft := tree.Vec{X: s.gap(left), Y: s.gap(top)}
	bottomRight := tree.Vec{X: s.gap(right), Y: s.gap(bottom)}
	border := tree.Vec{X: s.BorderSize, Y: s.BorderSize}

	pos := l.Pos.Add(border).Add(topLeft).Add(in.Reserved.TopLeft)
	size := l.Size.
		Sub(border.Scale(2)).
		Sub(topLeft).Sub(bottomRight).
		Sub(in.Reserved.TopLeft).Sub(in.Reserved.BottomRight)

	g.Rendered = tree.Rect{Pos: pos, Size: size}
	return g
}

func (s Settings) gap(outer bool) float64 {
	if outer {
		return s.GapsOut
	}
	return s.GapsIn
}

func sticks(a, b float64) bool {
	return math.Abs(a-b) < stickDistance
}

// Applier implements layout.Placement.
type Applier struct {
	Settings Settings
	Monitors layout.Monitors
	Surface  Surface
}

// NewApplier builds an Applier from config and host collaborators.
func NewApplier(c config.Config, monitors layout.Monitors, surface Surface) *Applier {
	return &Applier{Settings: SettingsFrom(c), Monitors: monitors, Surface: surface}
}

// ApplyLeafGeometry places one leaf. It returns ORPHANED_NODE when the
// workspace has no monitor and INVALID_WINDOW_HANDLE when the window is gone
// or unmapped.
func (a *Applier) ApplyLeafGeometry(req layout.PlacementRequest) error {
	m, ok := a.Monitors.MonitorFor(req.Workspace)
	if !ok {
		return terrors.New(terrors.ErrCodeOrphanedNode, "workspace %d has no monitor", req.Workspace)
	}

	w, ok := a.Surface.Window(req.Window)
	if !ok || !w.Mapped {
		return terrors.New(terrors.ErrCodeInvalidWindowHandle, "window %s does not exist or is unmapped", req.Window)
	}

	g := Compute(a.Settings, Input{
		Logical:        req.Rect,
		Usable:         m.UsableRect(),
		Special:        a.Monitors.IsSpecialWorkspace(req.Workspace),
		TiledCount:     req.TiledCount,
		Fullscreen:     w.Fullscreen,
		FullscreenMode: w.FullscreenMode,
		Reserved:       a.Surface.ReservedArea(req.Window),
		Force:          req.Force,
	})
	a.Surface.SetGeometry(req.Window, g)
	return nil
}
