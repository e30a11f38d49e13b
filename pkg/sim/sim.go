// Package sim drives a layout engine from a simulated compositor.
//
// A [Host] keeps monitors, windows, focus and pointer in memory and
// implements the layout collaborators. [Sim] pairs a Host with an engine and
// a placement applier and translates compositor events (map, unmap, focus,
// ...) into engine calls in the order a real compositor would make them.
//
// [Scenario] files describe monitors and an ordered list of steps in TOML;
// [Run] replays one against a fresh Sim.
package sim

import (
	"github.com/matzehuels/tiletree/pkg/config"
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/placement"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Sim is a simulated compositor with a tiling engine attached.
type Sim struct {
	Host   *Host
	Engine *layout.Engine
}

// New creates a Sim with no monitors. Engine options such as logger and
// hooks are passed through.
func New(cfg config.Config, opts ...layout.Option) *Sim {
	host := NewHost()
	applier := placement.NewApplier(cfg, host, host)
	engine := layout.New(layout.Collaborators{
		Windows:     host,
		Monitors:    host,
		Focus:       host,
		Fullscreen:  host,
		Decorations: host,
		Placement:   applier,
	}, opts...)
	return &Sim{Host: host, Engine: engine}
}

// MapOptions are optional window properties for [Sim.Map].
type MapOptions struct {
	Floating bool
	Reserved placement.Reserved
}

// AddMonitor adds a monitor and re-runs geometry for its workspaces.
func (s *Sim) AddMonitor(m Monitor) *Monitor {
	mp := s.Host.AddMonitor(m)
	s.recalcMonitor(mp)
	return mp
}

// Map maps a new window on ws, tiles it unless floating, and focuses it.
func (s *Sim) Map(h tree.WindowHandle, ws tree.WorkspaceID, opts MapOptions) error {
	if err := terrors.ValidateWindowHandle(string(h)); err != nil {
		return err
	}
	if _, ok := s.Host.Lookup(h); ok {
		return terrors.New(terrors.ErrCodeInvalidInput, "window %s is already mapped", h)
	}
	s.Host.addWindow(&Window{
		Window: layout.Window{
			Handle:    h,
			Workspace: ws,
			Mapped:    true,
			Floating:  opts.Floating,
		},
		Reserved: opts.Reserved,
	})
	if !opts.Floating {
		s.Engine.OnWindowCreated(h)
	}
	s.Host.setFocus(h)
	return nil
}

// Unmap untiles and forgets h.
func (s *Sim) Unmap(h tree.WindowHandle) error {
	w, ok := s.Host.Lookup(h)
	if !ok {
		return terrors.New(terrors.ErrCodeNotFound, "window %s is not mapped", h)
	}
	if s.Engine.IsTiled(h) {
		s.Engine.OnWindowRemoved(h)
	}
	w.Mapped = false
	s.Host.removeWindow(h)
	return nil
}

// Kill makes h disappear without telling the engine. The engine notices on
// the next geometry pass that reaches the window's leaf.
func (s *Sim) Kill(h tree.WindowHandle) error {
	if _, ok := s.Host.Lookup(h); !ok {
		return terrors.New(terrors.ErrCodeNotFound, "window %s is not mapped", h)
	}
	s.Host.removeWindow(h)
	return nil
}

// Focus makes h the last focused window.
func (s *Sim) Focus(h tree.WindowHandle) error {
	if _, ok := s.Host.Lookup(h); !ok {
		return terrors.New(terrors.ErrCodeNotFound, "window %s is not mapped", h)
	}
	s.Host.setFocus(h)
	return nil
}

// Pointer moves the pointer to p.
func (s *Sim) Pointer(p tree.Vec) {
	s.Host.setPointer(p)
}

// Float toggles floating for h, untiling or tiling it as needed.
func (s *Sim) Float(h tree.WindowHandle, floating bool) error {
	w, ok := s.Host.Lookup(h)
	if !ok {
		return terrors.New(terrors.ErrCodeNotFound, "window %s is not mapped", h)
	}
	if w.Floating == floating {
		return nil
	}
	if floating {
		if s.Engine.IsTiled(h) {
			s.Engine.OnWindowRemoved(h)
		}
		w.Floating = true
		return nil
	}
	w.Floating = false
	s.Engine.OnWindowCreated(h)
	return nil
}

// Fullscreen sets h's fullscreen state and re-runs geometry for its
// workspace.
func (s *Sim) Fullscreen(h tree.WindowHandle, on bool, mode layout.FullscreenMode) error {
	w, ok := s.Host.Lookup(h)
	if !ok {
		return terrors.New(terrors.ErrCodeNotFound, "window %s is not mapped", h)
	}
	w.Fullscreen = on
	w.FullscreenMode = mode
	if !on {
		w.FullscreenMode = layout.FullscreenFull
	}
	s.Engine.RecalculateMonitor(w.Workspace)
	return nil
}

// Message sends a layout command for h and returns its result.
func (s *Sim) Message(h tree.WindowHandle, cmd string) (string, error) {
	if err := terrors.ValidateCommand(cmd); err != nil {
		return "", err
	}
	return s.Engine.Message(h, cmd), nil
}

// ResizeMonitor changes a monitor's position and size and re-runs geometry
// for the workspaces it shows.
func (s *Sim) ResizeMonitor(name string, r tree.Rect) error {
	m, ok := s.Host.MonitorByName(name)
	if !ok {
		return terrors.New(terrors.ErrCodeNotFound, "monitor %q does not exist", name)
	}
	m.Position = r.Pos
	m.Size = r.Size
	s.recalcMonitor(m)
	return nil
}

// Enable rebuilds the tree from the current windows.
func (s *Sim) Enable() {
	s.Engine.Enable()
}

func (s *Sim) recalcMonitor(m *Monitor) {
	s.Engine.RecalculateMonitor(m.Workspace)
	if m.Special != 0 {
		s.Engine.RecalculateMonitor(m.Special)
	}
}
