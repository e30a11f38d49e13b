package sim

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tiletree/pkg/config"
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Step actions.
const (
	ActionMap           = "map"
	ActionUnmap         = "unmap"
	ActionKill          = "kill"
	ActionFocus         = "focus"
	ActionPointer       = "pointer"
	ActionFloat         = "float"
	ActionFullscreen    = "fullscreen"
	ActionMessage       = "message"
	ActionResizeMonitor = "resize-monitor"
	ActionEnable        = "enable"
	ActionExpect        = "expect"
)

// Scenario is a scripted compositor session.
//
//	name = "two windows"
//
//	[[monitor]]
//	name = "DP-1"
//	workspace = 1
//	width = 1920
//	height = 1080
//
//	[[step]]
//	action = "map"
//	window = "term"
//	workspace = 1
type Scenario struct {
	Name        string        `toml:"name"`
	Description string        `toml:"description"`
	Monitors    []MonitorSpec `toml:"monitor"`
	Steps       []Step        `toml:"step"`
}

// MonitorSpec describes a monitor in a scenario.
type MonitorSpec struct {
	Name             string  `toml:"name" json:"name"`
	Workspace        int     `toml:"workspace" json:"workspace"`
	SpecialWorkspace int     `toml:"special_workspace" json:"special_workspace,omitempty"`
	X                float64 `toml:"x" json:"x"`
	Y                float64 `toml:"y" json:"y"`
	Width            float64 `toml:"width" json:"width"`
	Height           float64 `toml:"height" json:"height"`
	ReservedTop      float64 `toml:"reserved_top" json:"reserved_top,omitempty"`
	ReservedBottom   float64 `toml:"reserved_bottom" json:"reserved_bottom,omitempty"`
	ReservedLeft     float64 `toml:"reserved_left" json:"reserved_left,omitempty"`
	ReservedRight    float64 `toml:"reserved_right" json:"reserved_right,omitempty"`
}

// Monitor converts the spec into a host monitor.
func (m MonitorSpec) Monitor() Monitor {
	return Monitor{
		Monitor: layout.Monitor{
			Name:                m.Name,
			Position:            tree.Vec{X: m.X, Y: m.Y},
			Size:                tree.Vec{X: m.Width, Y: m.Height},
			ReservedTopLeft:     tree.Vec{X: m.ReservedLeft, Y: m.ReservedTop},
			ReservedBottomRight: tree.Vec{X: m.ReservedRight, Y: m.ReservedBottom},
		},
		Workspace: tree.WorkspaceID(m.Workspace),
		Special:   tree.WorkspaceID(m.SpecialWorkspace),
	}
}

// Step is one scenario event. Which fields apply depends on Action.
type Step struct {
	Action    string    `toml:"action"`
	Window    string    `toml:"window"`
	Workspace int       `toml:"workspace"`
	Floating  bool      `toml:"floating"`
	Command   string    `toml:"command"`
	Mode      string    `toml:"mode"` // fullscreen: full | maximized | off
	Monitor   string    `toml:"monitor"`
	X         float64   `toml:"x"`
	Y         float64   `toml:"y"`
	Width     float64   `toml:"width"`
	Height    float64   `toml:"height"`
	Rect      []float64 `toml:"rect"` // expect: x, y, w, h of the logical rect
	Tiled     *bool     `toml:"tiled"`
}

// String renders the step compactly for logs and the viewer.
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Action)
	switch s.Action {
	case ActionMap:
		fmt.Fprintf(&b, " %s ws=%d", s.Window, s.Workspace)
		if s.Floating {
			b.WriteString(" floating")
		}
	case ActionUnmap, ActionKill, ActionFocus:
		fmt.Fprintf(&b, " %s", s.Window)
	case ActionPointer:
		fmt.Fprintf(&b, " %g,%g", s.X, s.Y)
	case ActionFloat:
		fmt.Fprintf(&b, " %s %t", s.Window, s.Floating)
	case ActionFullscreen:
		fmt.Fprintf(&b, " %s %s", s.Window, s.Mode)
	case ActionMessage:
		fmt.Fprintf(&b, " %s %q", s.Window, s.Command)
	case ActionResizeMonitor:
		fmt.Fprintf(&b, " %s %gx%g+%g+%g", s.Monitor, s.Width, s.Height, s.X, s.Y)
	case ActionExpect:
		fmt.Fprintf(&b, " %s", s.Window)
		if s.Rect != nil {
			fmt.Fprintf(&b, " %v", s.Rect)
		}
		if s.Tiled != nil {
			fmt.Fprintf(&b, " tiled=%t", *s.Tiled)
		}
	}
	return b.String()
}

// ParseScenario decodes and validates a TOML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidScenario, err, "parse scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, terrors.New(terrors.ErrCodeInvalidScenario, "unknown scenario key %s", undecoded[0])
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "scenario %s", path)
		}
		return nil, terrors.Wrap(terrors.ErrCodeInvalidScenario, err, "read scenario %s", path)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate checks monitors and steps for missing or contradictory fields.
func (sc *Scenario) Validate() error {
	names := make(map[string]bool)
	for i, m := range sc.Monitors {
		if m.Name == "" {
			return terrors.New(terrors.ErrCodeInvalidScenario, "monitor[%d]: name is required", i)
		}
		if names[m.Name] {
			return terrors.New(terrors.ErrCodeInvalidScenario, "monitor[%d]: duplicate name %q", i, m.Name)
		}
		names[m.Name] = true
		if m.Width <= 0 || m.Height <= 0 {
			return terrors.New(terrors.ErrCodeInvalidScenario, "monitor %q: width and height must be positive", m.Name)
		}
	}

	for i, st := range sc.Steps {
		if err := st.validate(names); err != nil {
			return terrors.Wrap(terrors.ErrCodeInvalidScenario, err, "step[%d] (%s)", i, st.Action)
		}
	}
	return nil
}

func (s Step) validate(monitors map[string]bool) error {
	needsWindow := func() error {
		return terrors.ValidateWindowHandle(s.Window)
	}

	switch s.Action {
	case ActionMap, ActionUnmap, ActionKill, ActionFocus, ActionFloat:
		return needsWindow()
	case ActionFullscreen:
		if err := needsWindow(); err != nil {
			return err
		}
		if _, _, err := parseFullscreenMode(s.Mode); err != nil {
			return err
		}
	case ActionMessage:
		if err := needsWindow(); err != nil {
			return err
		}
		return terrors.ValidateCommand(s.Command)
	case ActionResizeMonitor:
		if !monitors[s.Monitor] {
			return fmt.Errorf("unknown monitor %q", s.Monitor)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("width and height must be positive")
		}
	case ActionExpect:
		if err := needsWindow(); err != nil {
			return err
		}
		if s.Rect != nil && len(s.Rect) != 4 {
			return fmt.Errorf("rect needs 4 values, got %d", len(s.Rect))
		}
		if s.Rect == nil && s.Tiled == nil {
			return fmt.Errorf("expect needs rect or tiled")
		}
	case ActionPointer, ActionEnable:
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

func parseFullscreenMode(s string) (on bool, mode layout.FullscreenMode, err error) {
	switch s {
	case "", "full":
		return true, layout.FullscreenFull, nil
	case "maximized":
		return true, layout.FullscreenMaximized, nil
	case "off":
		return false, layout.FullscreenFull, nil
	}
	return false, 0, fmt.Errorf("unknown fullscreen mode %q", s)
}

// FromScenario creates a Sim with the scenario's monitors.
func FromScenario(sc *Scenario, cfg config.Config, opts ...layout.Option) *Sim {
	s := New(cfg, opts...)
	for _, m := range sc.Monitors {
		s.Host.AddMonitor(m.Monitor())
	}
	return s
}

// Apply performs one step.
func (s *Sim) Apply(st Step) error {
	h := tree.WindowHandle(st.Window)
	switch st.Action {
	case ActionMap:
		return s.Map(h, tree.WorkspaceID(st.Workspace), MapOptions{Floating: st.Floating})
	case ActionUnmap:
		return s.Unmap(h)
	case ActionKill:
		return s.Kill(h)
	case ActionFocus:
		return s.Focus(h)
	case ActionPointer:
		s.Pointer(tree.Vec{X: st.X, Y: st.Y})
		return nil
	case ActionFloat:
		return s.Float(h, st.Floating)
	case ActionFullscreen:
		on, mode, err := parseFullscreenMode(st.Mode)
		if err != nil {
			return terrors.Wrap(terrors.ErrCodeInvalidScenario, err, "fullscreen")
		}
		return s.Fullscreen(h, on, mode)
	case ActionMessage:
		_, err := s.Message(h, st.Command)
		return err
	case ActionResizeMonitor:
		return s.ResizeMonitor(st.Monitor, tree.R(st.X, st.Y, st.Width, st.Height))
	case ActionEnable:
		s.Enable()
		return nil
	case ActionExpect:
		return s.expect(st)
	}
	return terrors.New(terrors.ErrCodeInvalidScenario, "unknown action %q", st.Action)
}

func (s *Sim) expect(st Step) error {
	h := tree.WindowHandle(st.Window)
	if st.Tiled != nil && s.Engine.IsTiled(h) != *st.Tiled {
		return terrors.New(terrors.ErrCodeInvalidScenario, "expected %s tiled=%t", h, *st.Tiled)
	}
	if st.Rect == nil {
		return nil
	}
	w, ok := s.Host.Lookup(h)
	if !ok || !w.Placed {
		return terrors.New(terrors.ErrCodeInvalidScenario, "expected %s to be placed", h)
	}
	want := tree.R(st.Rect[0], st.Rect[1], st.Rect[2], st.Rect[3])
	if got := w.Geometry.Logical.Round(); got != want {
		return terrors.New(terrors.ErrCodeInvalidScenario, "%s: logical rect %v, want %v", h, fmtRect(got), fmtRect(want))
	}
	return nil
}

func fmtRect(r tree.Rect) string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Pos.X, r.Pos.Y, r.Size.X, r.Size.Y)
}

// StepFunc observes the Sim after each step. Returning an error stops Run.
type StepFunc func(i int, st Step, s *Sim) error

// Run replays sc against a fresh Sim built with cfg and opts. observe, when
// non-nil, is called after every step.
func Run(ctx context.Context, sc *Scenario, cfg config.Config, observe StepFunc, opts ...layout.Option) (*Sim, error) {
	s := FromScenario(sc, cfg, opts...)
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if err := s.Apply(st); err != nil {
			return s, fmt.Errorf("step %d (%s): %w", i+1, st, err)
		}
		if observe != nil {
			if err := observe(i, st, s); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}
