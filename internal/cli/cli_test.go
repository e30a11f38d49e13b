package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tiletree/pkg/cache"
	"github.com/matzehuels/tiletree/pkg/config"
	"github.com/matzehuels/tiletree/pkg/events"
	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/render/nodelink"
	"github.com/matzehuels/tiletree/pkg/sim"
)

const twoWindows = `
name = "two windows"

[[monitor]]
name = "DP-1"
workspace = 1
width = 1920
height = 1080

[[step]]
action = "map"
window = "term"
workspace = 1

[[step]]
action = "map"
window = "browser"
workspace = 1

[[step]]
action = "expect"
window = "browser"
rect = [960, 0, 960, 1080]
`

const badExpect = `
[[monitor]]
name = "DP-1"
workspace = 1
width = 1920
height = 1080

[[step]]
action = "map"
window = "term"
workspace = 1

[[step]]
action = "expect"
window = "term"
rect = [0, 0, 100, 100]
`

const twoMonitors = `
[[monitor]]
name = "DP-1"
workspace = 1
width = 1920
height = 1080

[[monitor]]
name = "HDMI-A-1"
workspace = 2
x = 1920
width = 1280
height = 1024

[[step]]
action = "map"
window = "term"
workspace = 1

[[step]]
action = "map"
window = "editor"
workspace = 2
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T, dir string, cfg config.Config) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := cfg.WriteFile(path, true); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"replay", "view", "render", "serve", "events", "config", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}

	for _, flag := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestSetupVerbose(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", cfg, "-v", "config", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestSetupMissingConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", filepath.Join(dir, "missing.toml"), "replay", "x.toml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())
	sc := writeFile(t, dir, "two.toml", twoWindows)

	out, err := execute(t, "--config", cfg, "replay", sc)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, want := range []string{"two windows", "3 nodes", "2 tiled windows", "term", "browser", "0,0 960x1080", "960,0 960x1080"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())
	sc := writeFile(t, dir, "two.toml", twoWindows)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "replay", "--json", sc)
		if err != nil {
			t.Fatal(err)
		}
		var snap graph.Snapshot
		if err := json.Unmarshal([]byte(out), &snap); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if len(snap.Nodes) != 3 {
			t.Errorf("nodes = %d, want 3", len(snap.Nodes))
		}
		if got := len(snap.Windows(1)); got != 2 {
			t.Errorf("windows = %d, want 2", got)
		}
	})

	t.Run("steps", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "replay", "--steps", sc)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"map term ws=1", "map browser ws=1", "expect browser"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("ascii", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "replay", "--ascii", "--width", "40", "--height", "10", sc)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "workspace 1") {
			t.Errorf("output missing workspace heading:\n%s", out)
		}
		if !strings.Contains(out, "┌") {
			t.Errorf("output missing box drawing:\n%s", out)
		}
	})
}

func TestReplayErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())

	tests := []struct {
		name     string
		scenario string
		wantErr  string
	}{
		{"failed expectation", badExpect, "logical rect"},
		{"unknown action", "[[step]]\naction = \"teleport\"\nwindow = \"a\"\n", "unknown action"},
		{"unknown key", "colour = \"red\"\n", "unknown scenario key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := writeFile(t, dir, "sc.toml", tt.scenario)
			_, err := execute(t, "--config", cfg, "replay", sc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "--config", cfg, "replay", filepath.Join(dir, "nope.toml"))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestReplayUnreachableRedis(t *testing.T) {
	dir := t.TempDir()
	c := config.Default()
	c.Events.RedisAddr = "127.0.0.1:1"
	cfg := writeConfig(t, dir, c)
	sc := writeFile(t, dir, "two.toml", twoWindows)

	if _, err := execute(t, "--config", cfg, "replay", sc); err != nil {
		t.Fatalf("replay should continue without events: %v", err)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())
	sc := writeFile(t, dir, "two.toml", twoWindows)

	t.Run("multiple formats", func(t *testing.T) {
		base := filepath.Join(dir, "out")
		out, err := execute(t, "--config", cfg, "render", "-f", "json,dot", "-o", base, sc)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "Rendered 3 nodes") {
			t.Errorf("output = %q", out)
		}

		dot, err := os.ReadFile(base + ".dot")
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Contains(dot, []byte("digraph")) {
			t.Errorf("dot output missing digraph:\n%s", dot)
		}

		data, err := os.ReadFile(base + ".json")
		if err != nil {
			t.Fatal(err)
		}
		var snap graph.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatal(err)
		}
		if len(snap.Workspaces) != 1 {
			t.Errorf("workspaces = %d, want 1", len(snap.Workspaces))
		}
	})

	t.Run("single format keeps path", func(t *testing.T) {
		path := filepath.Join(dir, "tree.txt")
		if _, err := execute(t, "--config", cfg, "render", "-f", "dot", "-o", path, sc); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	})

	t.Run("workspace filter", func(t *testing.T) {
		multi := writeFile(t, dir, "multi.toml", twoMonitors)
		path := filepath.Join(dir, "ws2.json")
		if _, err := execute(t, "--config", cfg, "render", "-f", "json", "-w", "2", "-o", path, multi); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var snap graph.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatal(err)
		}
		if len(snap.Workspaces) != 1 || snap.Workspaces[0].ID != 2 {
			t.Errorf("workspaces = %+v, want only 2", snap.Workspaces)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		if _, err := execute(t, "--config", cfg, "render", "-f", "gif", sc); err == nil {
			t.Error("expected error for gif")
		}
	})
}

func TestRenderCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	cfg := writeConfig(t, dir, config.Default())
	scPath := writeFile(t, dir, "two.toml", twoWindows)

	sc, err := sim.LoadScenario(scPath)
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.Run(context.Background(), sc, config.Default(), nil, layout.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	dot := nodelink.ToDOT(graph.FromStore(s.Engine.Store()), nodelink.Options{})

	cacheDir, err := cache.DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), cache.Key(formatSVG, dot, 2.0), []byte("<svg>cached</svg>"), time.Hour); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "tree.svg")
	if _, err := execute(t, "--config", cfg, "render", "-o", out, scPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg>cached</svg>" {
		t.Errorf("render did not use the cached diagram: %.60q", data)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " JSON , Dot ", []string{"json", "dot"}},
		{"duplicates dropped", "svg,svg,json", []string{"svg", "json"}},
		{"empty entries skipped", "svg,,png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"json", "dot", "svg", "png", "pdf"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultBase(t *testing.T) {
	tests := []struct {
		scenario, output, want string
	}{
		{"scenarios/split.toml", "", "split"},
		{"split", "", "split"},
		{"split.toml", "out/tree.svg", "out/tree"},
		{"split.toml", "out/tree", "out/tree"},
	}

	for _, tt := range tests {
		if got := defaultBase(tt.scenario, tt.output); got != tt.want {
			t.Errorf("defaultBase(%q, %q) = %q, want %q", tt.scenario, tt.output, got, tt.want)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	out, err := execute(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("init output missing path: %q", out)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[tiling]", "gaps_out", "[events]"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("path = %q, want %q", strings.TrimSpace(out), path)
	}
}

func TestCompletion(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, config.Default())

	out, err := execute(t, "--config", cfg, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "tiletree") {
		t.Error("bash completion should mention tiletree")
	}

	if _, err := execute(t, "--config", cfg, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestEngineHooks(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		addr  string
		extra []observability.LayoutHooks
		want  int // -1 for the no-op hooks
	}{
		{"nothing configured", "", nil, -1},
		{"extra only", "", []observability.LayoutHooks{&faultCounter{}}, 1},
		{"redis", mr.Addr(), []observability.LayoutHooks{&faultCounter{}}, 2},
		{"unreachable redis", "127.0.0.1:1", []observability.LayoutHooks{&faultCounter{}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Events.RedisAddr = tt.addr

			hooks, closeHooks := c.engineHooks(ctx, tt.extra...)
			defer closeHooks()

			if tt.want < 0 {
				if _, ok := hooks.(observability.NoopLayoutHooks); !ok {
					t.Errorf("hooks = %T, want NoopLayoutHooks", hooks)
				}
				return
			}
			multi, ok := hooks.(observability.MultiLayoutHooks)
			if !ok {
				t.Fatalf("hooks = %T, want MultiLayoutHooks", hooks)
			}
			if len(multi) != tt.want {
				t.Errorf("len(hooks) = %d, want %d", len(multi), tt.want)
			}
		})
	}
}

func TestFaultCounter(t *testing.T) {
	var f faultCounter
	var hooks observability.LayoutHooks = &f
	hooks.OnFault("STRUCTURAL_VIOLATION")
	hooks.OnFault("ORPHANED_NODE")
	hooks.OnInsert(1, "term")
	if got := f.Load(); got != 2 {
		t.Errorf("faults = %d, want 2", got)
	}
}

func TestEventsCommand(t *testing.T) {
	t.Run("requires redis address", func(t *testing.T) {
		dir := t.TempDir()
		cfg := writeConfig(t, dir, config.Default())
		if _, err := execute(t, "--config", cfg, "events"); err == nil {
			t.Error("expected error without events.redis_addr")
		}
	})

	t.Run("prints published events", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := New(io.Discard, LogInfo)
		c.Config.Events.RedisAddr = mr.Addr()
		c.Config.Events.Channel = "test:events"

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var out syncBuffer
		done := make(chan error, 1)
		go func() { done <- c.runEvents(ctx, &out, false) }()

		payload, err := json.Marshal(events.Event{Type: events.TypeOpenWindow, Time: time.Now(), Workspace: 3, Window: "term"})
		if err != nil {
			t.Fatal(err)
		}

		deadline := time.Now().Add(2 * time.Second)
		for !strings.Contains(out.String(), "term on workspace 3") {
			if time.Now().After(deadline) {
				t.Fatalf("event not printed, output: %q", out.String())
			}
			mr.Publish("test:events", string(payload))
			time.Sleep(20 * time.Millisecond)
		}

		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("runEvents() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("runEvents did not stop after cancel")
		}
	})
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		e    events.Event
		want []string
	}{
		{
			name: "open",
			e:    events.Event{Type: events.TypeOpenWindow, Time: ts, Workspace: 1, Window: "term"},
			want: []string{"openwindow", "term on workspace 1"},
		},
		{
			name: "close with collapse",
			e:    events.Event{Type: events.TypeCloseWindow, Time: ts, Workspace: 2, Window: "term", Collapsed: 1},
			want: []string{"closewindow", "term on workspace 2, 1 group collapsed"},
		},
		{
			name: "split",
			e:    events.Event{Type: events.TypeSplit, Time: ts, Window: "term", Layout: "splitv"},
			want: []string{"split", "term → splitv"},
		},
		{
			name: "recalc",
			e:    events.Event{Type: events.TypeRecalc, Time: ts, Nodes: 5, Duration: "12µs"},
			want: []string{"recalc", "5 nodes in 12µs"},
		},
		{
			name: "fault",
			e:    events.Event{Type: events.TypeFault, Time: ts, Code: "ORPHANED_NODE"},
			want: []string{"fault", "ORPHANED_NODE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatEvent(tt.e)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatEvent() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestExampleScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "scenarios", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example scenarios")
	}
	cfg := writeConfig(t, t.TempDir(), config.Default())

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			if _, err := execute(t, "--config", cfg, "replay", path); err != nil {
				t.Error(err)
			}
		})
	}
}
