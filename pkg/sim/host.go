package sim

import (
	"slices"

	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/placement"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Monitor is a simulated output showing one regular workspace and
// optionally one special workspace on top.
type Monitor struct {
	layout.Monitor
	Workspace tree.WorkspaceID
	Special   tree.WorkspaceID // 0 when none
}

// Window is a simulated client window together with everything the layout
// and placement have applied to it.
type Window struct {
	layout.Window
	Reserved    placement.Reserved
	Geometry    placement.Geometry
	Placed      bool
	Decorations placement.Decorations
}

// Host is an in-memory compositor. It implements every layout collaborator
// except Placement, plus [placement.Surface].
//
// Host is not safe for concurrent use.
type Host struct {
	monitors []*Monitor
	windows  []*Window
	focus    []tree.WindowHandle
	pointer  tree.Vec
	pointed  bool
}

// NewHost creates a host with no monitors or windows.
func NewHost() *Host {
	return &Host{}
}

// =============================================================================
// Host state
// =============================================================================

// AddMonitor adds m. IDs are assigned in insertion order.
func (h *Host) AddMonitor(m Monitor) *Monitor {
	m.ID = len(h.monitors)
	mp := &m
	h.monitors = append(h.monitors, mp)
	return mp
}

// Monitors returns all monitors in insertion order.
func (h *Host) Monitors() []*Monitor {
	return slices.Clone(h.monitors)
}

// MonitorByName returns the monitor called name.
func (h *Host) MonitorByName(name string) (*Monitor, bool) {
	for _, m := range h.monitors {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Lookup returns the window record for handle.
func (h *Host) Lookup(handle tree.WindowHandle) (*Window, bool) {
	for _, w := range h.windows {
		if w.Handle == handle {
			return w, true
		}
	}
	return nil, false
}

// All returns every window in mapping order.
func (h *Host) All() []*Window {
	return slices.Clone(h.windows)
}

func (h *Host) addWindow(w *Window) {
	w.Decorations = placement.AllDecorations
	h.windows = append(h.windows, w)
}

func (h *Host) removeWindow(handle tree.WindowHandle) {
	h.windows = slices.DeleteFunc(h.windows, func(w *Window) bool { return w.Handle == handle })
	h.focus = slices.DeleteFunc(h.focus, func(f tree.WindowHandle) bool { return f == handle })
}

func (h *Host) setFocus(handle tree.WindowHandle) {
	h.focus = slices.DeleteFunc(h.focus, func(f tree.WindowHandle) bool { return f == handle })
	h.focus = append(h.focus, handle)
}

func (h *Host) setPointer(p tree.Vec) {
	h.pointer = p
	h.pointed = true
}

// Pointer returns the pointer position and whether it was ever set.
func (h *Host) Pointer() (tree.Vec, bool) {
	return h.pointer, h.pointed
}

// =============================================================================
// layout.Windows
// =============================================================================

func (h *Host) Window(handle tree.WindowHandle) (layout.Window, bool) {
	w, ok := h.Lookup(handle)
	if !ok {
		return layout.Window{}, false
	}
	return w.Window, true
}

func (h *Host) Windows() []layout.Window {
	out := make([]layout.Window, len(h.windows))
	for i, w := range h.windows {
		out[i] = w.Window
	}
	return out
}

// =============================================================================
// layout.Monitors
// =============================================================================

func (h *Host) MonitorFor(ws tree.WorkspaceID) (layout.Monitor, bool) {
	for _, m := range h.monitors {
		if m.Workspace == ws || (m.Special != 0 && m.Special == ws) {
			return m.Monitor, true
		}
	}
	return layout.Monitor{}, false
}

// IsSpecialWorkspace reports whether ws is a special workspace. Negative IDs
// are always special.
func (h *Host) IsSpecialWorkspace(ws tree.WorkspaceID) bool {
	if ws < 0 {
		return true
	}
	for _, m := range h.monitors {
		if m.Special != 0 && m.Special == ws {
			return true
		}
	}
	return false
}

// =============================================================================
// layout.Focus
// =============================================================================

func (h *Host) LastFocused() (tree.WindowHandle, bool) {
	if len(h.focus) == 0 {
		return "", false
	}
	return h.focus[len(h.focus)-1], true
}

// WindowUnderPointer hit-tests the pointer against the logical rects of
// placed, tiled windows. Later windows win on overlap.
func (h *Host) WindowUnderPointer() (tree.WindowHandle, bool) {
	if !h.pointed {
		return "", false
	}
	for _, w := range slices.Backward(h.windows) {
		if w.Placed && w.Mapped && !w.Floating && w.Geometry.Logical.Contains(h.pointer) {
			return w.Handle, true
		}
	}
	return "", false
}

// =============================================================================
// layout.Fullscreen and layout.Decorations
// =============================================================================

func (h *Host) IsFullscreen(handle tree.WindowHandle) bool {
	w, ok := h.Lookup(handle)
	return ok && w.Fullscreen
}

func (h *Host) ClearFullscreen(handle tree.WindowHandle) {
	if w, ok := h.Lookup(handle); ok {
		w.Fullscreen = false
		w.FullscreenMode = layout.FullscreenFull
	}
}

func (h *Host) ResetDecorations(handle tree.WindowHandle) {
	if w, ok := h.Lookup(handle); ok {
		w.Decorations = placement.AllDecorations
	}
}

// =============================================================================
// placement.Surface
// =============================================================================

func (h *Host) ReservedArea(handle tree.WindowHandle) placement.Reserved {
	if w, ok := h.Lookup(handle); ok {
		return w.Reserved
	}
	return placement.Reserved{}
}

func (h *Host) SetGeometry(handle tree.WindowHandle, g placement.Geometry) {
	if w, ok := h.Lookup(handle); ok {
		w.Geometry = g
		w.Decorations = g.Decorations
		w.Placed = true
	}
}
