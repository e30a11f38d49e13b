package placement

import (
	"testing"

	"github.com/matzehuels/tiletree/pkg/config"
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/tree"
)

var defaults = SettingsFrom(config.Default())

func TestCompute(t *testing.T) {
	monitor := tree.R(0, 0, 1920, 1080)

	noGaps := defaults
	noGaps.NoGapsWhenOnly = true

	tests := []struct {
		name     string
		settings Settings
		in       Input
		want     tree.Rect
		decos    Decorations
	}{
		{
			name:     "left half",
			settings: defaults,
			in:       Input{Logical: tree.R(0, 0, 960, 1080), Usable: monitor, TiledCount: 2},
			want:     tree.R(22, 22, 931, 1036),
			decos:    AllDecorations,
		},
		{
			name:     "right half",
			settings: defaults,
			in:       Input{Logical: tree.R(960, 0, 960, 1080), Usable: monitor, TiledCount: 2},
			want:     tree.R(967, 22, 931, 1036),
			decos:    AllDecorations,
		},
		{
			name:     "middle third has inner gaps on both sides",
			settings: defaults,
			in:       Input{Logical: tree.R(640, 0, 640, 1080), Usable: monitor, TiledCount: 3},
			want:     tree.R(647, 22, 626, 1036),
			decos:    AllDecorations,
		},
		{
			name:     "single window without no_gaps_when_only",
			settings: defaults,
			in:       Input{Logical: monitor, Usable: monitor, TiledCount: 1},
			want:     tree.R(22, 22, 1876, 1036),
			decos:    AllDecorations,
		},
		{
			name:     "single window with no_gaps_when_only",
			settings: noGaps,
			in:       Input{Logical: monitor, Usable: monitor, TiledCount: 1},
			want:     monitor,
		},
		{
			name:     "special workspace keeps gaps",
			settings: noGaps,
			in:       Input{Logical: monitor, Usable: monitor, TiledCount: 1, Special: true},
			want:     tree.R(22, 22, 1876, 1036),
			decos:    AllDecorations,
		},
		{
			name:     "maximized fullscreen drops gaps",
			settings: noGaps,
			in: Input{
				Logical: tree.R(0, 0, 960, 1080), Usable: monitor, TiledCount: 2,
				Fullscreen: true, FullscreenMode: layout.FullscreenMaximized,
			},
			want: tree.R(0, 0, 960, 1080),
		},
		{
			name:     "full fullscreen keeps gaps",
			settings: noGaps,
			in: Input{
				Logical: tree.R(0, 0, 960, 1080), Usable: monitor, TiledCount: 2,
				Fullscreen: true, FullscreenMode: layout.FullscreenFull,
			},
			want:  tree.R(22, 22, 931, 1036),
			decos: AllDecorations,
		},
		{
			name:     "edge near usable area sticks",
			settings: defaults,
			in:       Input{Logical: tree.R(1, 31, 1918, 1049), Usable: tree.R(0, 30, 1920, 1050), TiledCount: 2},
			want:     tree.R(23, 53, 1874, 1005),
			decos:    AllDecorations,
		},
		{
			name:     "bar makes top edge inner",
			settings: defaults,
			in:       Input{Logical: monitor, Usable: tree.R(0, 30, 1920, 1050), TiledCount: 2},
			want:     tree.R(22, 7, 1876, 1051),
			decos:    AllDecorations,
		},
		{
			name:     "window reserved area",
			settings: defaults,
			in: Input{
				Logical: monitor, Usable: monitor, TiledCount: 2,
				Reserved: Reserved{TopLeft: tree.Vec{Y: 24}, BottomRight: tree.Vec{X: 4}},
			},
			want:  tree.R(22, 46, 1872, 1012),
			decos: AllDecorations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Compute(tt.settings, tt.in)
			if g.Logical != tt.in.Logical {
				t.Errorf("Logical = %+v, want %+v", g.Logical, tt.in.Logical)
			}
			if g.Rendered != tt.want {
				t.Errorf("Rendered = %+v, want %+v", g.Rendered, tt.want)
			}
			if g.Decorations != tt.decos {
				t.Errorf("Decorations = %+v, want %+v", g.Decorations, tt.decos)
			}
		})
	}
}

type fakeSurface struct {
	windows  map[tree.WindowHandle]layout.Window
	reserved map[tree.WindowHandle]Reserved
	applied  map[tree.WindowHandle]Geometry
}

func (f *fakeSurface) Window(h tree.WindowHandle) (layout.Window, bool) {
	w, ok := f.windows[h]
	return w, ok
}

func (f *fakeSurface) ReservedArea(h tree.WindowHandle) Reserved { return f.reserved[h] }

func (f *fakeSurface) SetGeometry(h tree.WindowHandle, g Geometry) { f.applied[h] = g }

type fakeMonitors map[tree.WorkspaceID]layout.Monitor

func (f fakeMonitors) MonitorFor(ws tree.WorkspaceID) (layout.Monitor, bool) {
	m, ok := f[ws]
	return m, ok
}

func (f fakeMonitors) IsSpecialWorkspace(ws tree.WorkspaceID) bool { return ws < 0 }

func TestApplier(t *testing.T) {
	surface := &fakeSurface{
		windows: map[tree.WindowHandle]layout.Window{
			"a":        {Handle: "a", Workspace: 1, Mapped: true},
			"unmapped": {Handle: "unmapped", Workspace: 1},
		},
		reserved: map[tree.WindowHandle]Reserved{},
		applied:  map[tree.WindowHandle]Geometry{},
	}
	monitors := fakeMonitors{
		1: {Size: tree.Vec{X: 1920, Y: 1080}, ReservedTopLeft: tree.Vec{Y: 30}},
	}
	a := NewApplier(config.Default(), monitors, surface)

	tests := []struct {
		name     string
		req      layout.PlacementRequest
		wantCode terrors.Code
	}{
		{
			name: "placed",
			req:  layout.PlacementRequest{Window: "a", Workspace: 1, Rect: tree.R(0, 30, 1920, 1050), TiledCount: 1, Force: true},
		},
		{
			name:     "no monitor",
			req:      layout.PlacementRequest{Window: "a", Workspace: 9, Rect: tree.R(0, 0, 10, 10)},
			wantCode: terrors.ErrCodeOrphanedNode,
		},
		{
			name:     "gone",
			req:      layout.PlacementRequest{Window: "ghost", Workspace: 1, Rect: tree.R(0, 0, 10, 10)},
			wantCode: terrors.ErrCodeInvalidWindowHandle,
		},
		{
			name:     "unmapped",
			req:      layout.PlacementRequest{Window: "unmapped", Workspace: 1, Rect: tree.R(0, 0, 10, 10)},
			wantCode: terrors.ErrCodeInvalidWindowHandle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.ApplyLeafGeometry(tt.req)
			if got := terrors.GetCode(err); got != tt.wantCode {
				t.Fatalf("ApplyLeafGeometry() code = %q (%v), want %q", got, err, tt.wantCode)
			}
		})
	}

	g, ok := surface.applied["a"]
	if !ok {
		t.Fatal("geometry not applied")
	}
	if !g.Warp {
		t.Error("Force did not become Warp")
	}
	if want := tree.R(22, 52, 1876, 1006); g.Rendered != want {
		t.Errorf("Rendered = %+v, want %+v", g.Rendered, want)
	}
	if len(surface.applied) != 1 {
		t.Errorf("applied to %d windows, want 1", len(surface.applied))
	}
}
