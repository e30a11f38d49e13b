package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/render/ascii"
	"github.com/matzehuels/tiletree/pkg/sim"
)

// replayOpts holds the command-line flags for the replay command.
type replayOpts struct {
	ascii  bool // draw each workspace on a character grid
	json   bool // print the tree snapshot as JSON instead of the table
	steps  bool // print every step as it is applied
	width  int  // ascii canvas columns
	height int  // ascii canvas rows
}

func (c *CLI) replayCommand() *cobra.Command {
	opts := replayOpts{width: ascii.DefaultWidth, height: ascii.DefaultHeight}

	cmd := &cobra.Command{
		Use:   "replay [scenario.toml]",
		Short: "Replay a scenario and print the resulting layout",
		Long: `Replay applies every step of a scenario file to a fresh engine and prints
the final geometry of each window. Steps of type "expect" turn the replay into
a check: the command fails when an expectation does not hold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "draw each workspace as ASCII art")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the tree snapshot as JSON")
	cmd.Flags().BoolVar(&opts.steps, "steps", false, "print each step as it is applied")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "ASCII canvas width in columns")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "ASCII canvas height in rows")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, w io.Writer, path string, opts replayOpts) error {
	sc, err := c.loadScenario(path)
	if err != nil {
		return err
	}

	faults := &faultCounter{}
	hooks, closeHooks := c.engineHooks(ctx, faults)
	defer closeHooks()

	prog := newProgress(loggerFromContext(ctx))
	var observe sim.StepFunc
	if opts.steps && !opts.json {
		observe = func(i int, st sim.Step, _ *sim.Sim) error {
			printInfo(w, "%3d  %s", i+1, st)
			return nil
		}
	}

	s, err := sim.Run(ctx, sc, c.Config, observe, c.engineOptions(hooks)...)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d steps", len(sc.Steps)))

	snap := graph.FromStore(s.Engine.Store())
	if opts.json {
		return graph.WriteSnapshot(snap, w)
	}

	title := sc.Name
	if title == "" {
		title = path
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printStats(w, len(snap.Workspaces), len(snap.Nodes), countWindows(snap))
	if n := faults.Load(); n > 0 {
		printWarning(w, "%d layout faults (run with -v for details)", n)
	}
	fmt.Fprintln(w, windowTable(s))

	if opts.ascii {
		for _, ws := range snap.Workspaces {
			fmt.Fprintln(w)
			fmt.Fprintln(w, StyleHighlight.Render(fmt.Sprintf("workspace %d", ws.ID)))
			fmt.Fprintln(w, ascii.Workspace(snap, ws.ID, ascii.Options{Width: opts.width, Height: opts.height}))
		}
	}
	return nil
}

func countWindows(s graph.Snapshot) int {
	n := 0
	for _, ws := range s.Workspaces {
		n += ws.Windows
	}
	return n
}

// faultCounter counts engine faults.
type faultCounter struct {
	observability.NoopLayoutHooks
	n atomic.Int64
}

func (f *faultCounter) OnFault(string) { f.n.Add(1) }

// Load returns the number of faults seen.
func (f *faultCounter) Load() int64 { return f.n.Load() }
