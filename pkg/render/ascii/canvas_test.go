package ascii

import (
	"strings"
	"testing"

	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/tree"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		bounds tree.Rect
		boxes  []Box
		opts   Options
		want   []string
	}{
		{
			name:   "SideBySide",
			bounds: tree.R(0, 0, 200, 60),
			boxes: []Box{
				{Label: "A", Rect: tree.R(0, 0, 100, 60)},
				{Label: "B", Rect: tree.R(100, 0, 100, 60)},
			},
			opts: Options{Width: 20, Height: 6},
			want: []string{
				"┌────────┐┌────────┐",
				"│A       ││B       │",
				"│        ││        │",
				"│        ││        │",
				"│        ││        │",
				"└────────┘└────────┘",
			},
		},
		{
			name:   "Stacked",
			bounds: tree.R(0, 0, 100, 60),
			boxes: []Box{
				{Label: "A", Rect: tree.R(0, 0, 100, 30)},
				{Label: "B", Rect: tree.R(0, 30, 100, 30)},
			},
			opts: Options{Width: 10, Height: 6},
			want: []string{
				"┌────────┐",
				"│A       │",
				"└────────┘",
				"┌────────┐",
				"│B       │",
				"└────────┘",
			},
		},
		{
			name:   "OverlapLastWins",
			bounds: tree.R(0, 0, 60, 30),
			boxes: []Box{
				{Label: "first", Rect: tree.R(0, 0, 60, 30)},
				{Label: "tab", Rect: tree.R(0, 0, 60, 30)},
			},
			opts: Options{Width: 6, Height: 3},
			want: []string{
				"┌────┐",
				"│tab │",
				"└────┘",
			},
		},
		{
			name:   "TruncatesLabel",
			bounds: tree.R(0, 0, 60, 30),
			boxes:  []Box{{Label: "browser", Rect: tree.R(0, 0, 60, 30)}},
			opts:   Options{Width: 6, Height: 3},
			want: []string{
				"┌────┐",
				"│brow│",
				"└────┘",
			},
		},
		{
			name:   "OffsetBounds",
			bounds: tree.R(1920, 0, 200, 60),
			boxes:  []Box{{Label: "x", Rect: tree.R(2020, 0, 100, 60)}},
			opts:   Options{Width: 8, Height: 3},
			want: []string{
				"    ┌──┐",
				"    │x │",
				"    └──┘",
			},
		},
		{
			name:   "TooSmallIsFilled",
			bounds: tree.R(0, 0, 40, 20),
			boxes:  []Box{{Label: "tiny", Rect: tree.R(0, 0, 10, 20)}},
			opts:   Options{Width: 4, Height: 2},
			want:   []string{"█", "█"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.bounds, tt.boxes, tt.opts)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func TestRender_ClipsOutsideBounds(t *testing.T) {
	got := Render(tree.R(0, 0, 100, 100), []Box{
		{Label: "off", Rect: tree.R(500, 500, 100, 100)},
	}, Options{Width: 10, Height: 5})
	if strings.TrimSpace(got) != "" {
		t.Errorf("box outside bounds should not draw:\n%s", got)
	}
}

func TestRender_EmptyBounds(t *testing.T) {
	got := Render(tree.Rect{}, []Box{{Label: "a", Rect: tree.R(0, 0, 10, 10)}}, Options{})
	if strings.TrimSpace(got) != "" {
		t.Errorf("empty bounds should draw nothing:\n%s", got)
	}
	if n := strings.Count(got, "\n") + 1; n != DefaultHeight {
		t.Errorf("rows = %d, want %d", n, DefaultHeight)
	}
}

func TestOptionsSize(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantW, wantH int
	}{
		{"defaults", Options{}, DefaultWidth, DefaultHeight},
		{"negative", Options{Width: -3, Height: -1}, DefaultWidth, DefaultHeight},
		{"as given", Options{Width: 120, Height: 40}, 120, 40},
		{"clamped", Options{Width: 100000, Height: 100000}, MaxWidth, MaxHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.opts.size()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNewCanvas_ClampsHugeSize(t *testing.T) {
	c := NewCanvas(tree.R(0, 0, 100, 100), Options{Width: 2000, Height: 2000})
	if len(c.cells) != MaxHeight {
		t.Errorf("rows = %d, want %d", len(c.cells), MaxHeight)
	}
	if len(c.cells[0]) != MaxWidth {
		t.Errorf("columns = %d, want %d", len(c.cells[0]), MaxWidth)
	}
}

func TestWorkspace(t *testing.T) {
	snap := graph.Snapshot{
		Workspaces: []graph.Workspace{{ID: 1, Root: "n0.1"}},
		Nodes: []graph.Node{
			{ID: "n0.1", Kind: graph.KindGroup, Layout: "splith", Workspace: 1,
				Rect: graph.Rect{W: 200, H: 60}, Children: []string{"n1.1", "n2.1"}},
			{ID: "n1.1", Parent: "n0.1", Kind: graph.KindWindow, Window: "A", Workspace: 1,
				Rect: graph.Rect{W: 100, H: 60}},
			{ID: "n2.1", Parent: "n0.1", Kind: graph.KindWindow, Window: "B", Workspace: 1,
				Rect: graph.Rect{X: 100, W: 100, H: 60}},
		},
	}

	got := Workspace(snap, 1, Options{Width: 20, Height: 3})
	want := strings.Join([]string{
		"┌────────┐┌────────┐",
		"│A       ││B       │",
		"└────────┘└────────┘",
	}, "\n")
	if got != want {
		t.Errorf("Workspace() =\n%s\nwant\n%s", got, want)
	}

	if got := Workspace(snap, 2, Options{Width: 20, Height: 3}); strings.TrimSpace(got) != "" {
		t.Errorf("unknown workspace should be blank:\n%s", got)
	}
}
