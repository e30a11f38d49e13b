package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/observability"
)

func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [scenario.toml]",
		Short: "Step through a scenario interactively",
		Long: `View replays a scenario and opens a terminal viewer showing the tiled
windows of each workspace after every step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runView(ctx context.Context, path string) error {
	sc, err := c.loadScenario(path)
	if err != nil {
		return err
	}

	// Engine logs would draw over the alt screen.
	frames := buildFrames(ctx, sc, c.Config,
		layout.WithLogger(log.New(io.Discard)),
		layout.WithHooks(observability.NoopLayoutHooks{}))
	c.Logger.Debug("frames", "count", len(frames))

	title := sc.Name
	if title == "" {
		title = path
	}
	_, err = tea.NewProgram(NewViewerModel(title, frames), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
