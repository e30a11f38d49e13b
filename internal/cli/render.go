package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletree/pkg/cache"
	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/render/nodelink"
	"github.com/matzehuels/tiletree/pkg/sim"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Output formats for the render command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatPDF  = "pdf"
)

var validFormats = []string{formatJSON, formatDOT, formatSVG, formatPNG, formatPDF}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	formats    []string // output formats
	detailed   bool     // node IDs and ratios in diagram labels
	scale      float64  // PNG scale factor
	workspaces []int    // restrict to these workspaces
	noCache    bool     // always run Graphviz
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render [scenario.toml]",
		Short: "Replay a scenario and write the final tree",
		Long: `Render replays a scenario and writes the resulting node tree as a JSON
snapshot, a Graphviz DOT file, or an SVG, PNG or PDF diagram.

PNG and PDF output require rsvg-convert from librsvg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node IDs and size ratios in diagram labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().IntSliceVarP(&opts.workspaces, "workspace", "w", nil, "only render these workspaces")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not reuse or store rendered diagrams")

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("invalid format %q: must be one of %s", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, path string, opts renderOpts) error {
	sc, err := c.loadScenario(path)
	if err != nil {
		return err
	}

	hooks, closeHooks := c.engineHooks(ctx)
	defer closeHooks()

	s, err := sim.Run(ctx, sc, c.Config, nil, c.engineOptions(hooks)...)
	if err != nil {
		return err
	}

	ws := make([]tree.WorkspaceID, len(opts.workspaces))
	for i, id := range opts.workspaces {
		ws[i] = tree.WorkspaceID(id)
	}
	snap := graph.FromStore(s.Engine.Store(), ws...)

	diagrams := c.renderCache(opts.noCache)
	defer diagrams.Close()

	base := opts.output
	if base == "" || len(opts.formats) > 1 {
		base = defaultBase(path, opts.output)
	}

	var written []string
	for _, f := range opts.formats {
		out := base
		if len(opts.formats) > 1 || opts.output == "" {
			out = base + "." + f
		}
		if err := c.writeFormat(ctx, diagrams, snap, f, out, opts); err != nil {
			return err
		}
		written = append(written, out)
	}

	printSuccess(w, "Rendered %s", plural(len(snap.Nodes), "node"))
	for _, p := range written {
		printFile(w, p)
	}
	return nil
}

// defaultBase strips any extension from output, or derives a base name from
// the scenario path.
func defaultBase(scenario, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	name := filepath.Base(scenario)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (c *CLI) writeFormat(ctx context.Context, diagrams cache.Cache, snap graph.Snapshot, format, path string, opts renderOpts) error {
	if format == formatJSON {
		return graph.WriteSnapshotFile(snap, path)
	}

	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: opts.detailed})
	if format == formatDOT {
		return os.WriteFile(path, []byte(dot), 0o644)
	}

	key := cache.Key(format, dot, opts.scale)
	if data, ok, err := diagrams.Get(ctx, key); err != nil {
		c.Logger.Warn("render cache", "error", err)
	} else if ok {
		c.Logger.Debug("render cache hit", "format", format)
		return os.WriteFile(path, data, 0o644)
	}

	var data []byte
	err := withSpinner(ctx, os.Stderr, "Rendering "+format, func() (err error) {
		data, err = renderDiagram(format, dot, opts.scale)
		return err
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if err := diagrams.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		c.Logger.Warn("render cache", "error", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func renderDiagram(format, dot string, scale float64) ([]byte, error) {
	switch format {
	case formatSVG:
		return nodelink.RenderSVG(dot)
	case formatPNG:
		return nodelink.RenderPNG(dot, scale)
	case formatPDF:
		return nodelink.RenderPDF(dot)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// renderCache opens the on-disk diagram cache. Failures disable caching
// rather than the render.
func (c *CLI) renderCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NullCache{}
	}
	dir, err := cache.DefaultDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	c.Logger.Warn("render cache disabled", "error", err)
	return cache.NullCache{}
}
