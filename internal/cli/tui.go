package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tiletree/pkg/config"
	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/render/ascii"
	"github.com/matzehuels/tiletree/pkg/sim"
)

// Tab styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle       = lipgloss.NewStyle().Foreground(colorRed)
)

// Canvas bounds for the viewer.
const (
	minCanvasWidth  = 20
	minCanvasHeight = 5
	chromeLines     = 8
)

// =============================================================================
// Frames
// =============================================================================

// frame is the tree after one scenario step.
type frame struct {
	step string
	snap graph.Snapshot
	err  error
}

// buildFrames replays sc and captures a snapshot before the first step and
// after every step. A failing step ends the replay with a frame carrying its
// error.
func buildFrames(ctx context.Context, sc *sim.Scenario, cfg config.Config, opts ...layout.Option) []frame {
	start := sim.FromScenario(sc, cfg, opts...)
	frames := []frame{{step: "start", snap: graph.FromStore(start.Engine.Store())}}

	_, err := sim.Run(ctx, sc, cfg, func(i int, st sim.Step, s *sim.Sim) error {
		frames = append(frames, frame{
			step: fmt.Sprintf("%d/%d  %s", i+1, len(sc.Steps), st),
			snap: graph.FromStore(s.Engine.Store()),
		})
		return nil
	}, opts...)
	if err != nil {
		last := frames[len(frames)-1]
		frames = append(frames, frame{step: "error", snap: last.snap, err: err})
	}
	return frames
}

// frameWorkspaces returns every workspace seen in any frame, ascending.
func frameWorkspaces(frames []frame) []int {
	var out []int
	for _, f := range frames {
		for _, ws := range f.snap.Workspaces {
			if !slices.Contains(out, ws.ID) {
				out = append(out, ws.ID)
			}
		}
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// ViewerModel - Interactive scenario stepping
// =============================================================================

// ViewerModel is the bubbletea model for stepping through a scenario.
type ViewerModel struct {
	Title      string
	Frames     []frame
	Workspaces []int
	Cursor     int
	Workspace  int // index into Workspaces
	Width      int
	Height     int
}

// NewViewerModel creates a viewer positioned at the first frame.
func NewViewerModel(title string, frames []frame) ViewerModel {
	return ViewerModel{
		Title:      title,
		Frames:     frames,
		Workspaces: frameWorkspaces(frames),
		Width:      ascii.DefaultWidth,
		Height:     ascii.DefaultHeight + chromeLines,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			if m.Cursor < len(m.Frames)-1 {
				m.Cursor++
			}
		case "left", "h", "p":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Frames) - 1
		case "tab":
			if len(m.Workspaces) > 0 {
				m.Workspace = (m.Workspace + 1) % len(m.Workspaces)
			}
		case "shift+tab":
			if len(m.Workspaces) > 0 {
				m.Workspace = (m.Workspace + len(m.Workspaces) - 1) % len(m.Workspaces)
			}
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m ViewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  tab workspace  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Frames) == 0 {
		b.WriteString(StyleDim.Render("no frames"))
		return b.String()
	}
	f := m.Frames[m.Cursor]

	tabs := make([]string, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		style := tabInactiveStyle
		if i == m.Workspace {
			style = tabActiveStyle
		}
		tabs[i] = style.Render(fmt.Sprintf("ws %d", ws))
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	if len(m.Workspaces) > 0 {
		b.WriteString(ascii.Workspace(f.snap, m.Workspaces[m.Workspace], m.canvasOptions()))
	} else {
		b.WriteString(StyleDim.Render("no tiled windows"))
	}
	b.WriteString("\n\n")

	if f.err != nil {
		b.WriteString(errorStyle.Render(iconError + " " + f.err.Error()))
	} else {
		b.WriteString(StyleHighlight.Render(f.step))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Frames))))
	return b.String()
}

func (m ViewerModel) canvasOptions() ascii.Options {
	return ascii.Options{
		Width:  max(m.Width-2, minCanvasWidth),
		Height: max(m.Height-chromeLines, minCanvasHeight),
	}
}
