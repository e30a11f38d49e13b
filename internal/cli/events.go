package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/events"
)

func (c *CLI) eventsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print layout events published on Redis",
		Long: `Events subscribes to the configured Redis channel ([events] redis_addr and
channel) and prints every layout event until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEvents(cmd.Context(), cmd.OutOrStdout(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON lines")
	return cmd
}

func (c *CLI) runEvents(ctx context.Context, w io.Writer, asJSON bool) error {
	addr := c.Config.Events.RedisAddr
	if addr == "" {
		return terrors.New(terrors.ErrCodeInvalidConfig, "events.redis_addr is not set")
	}

	client := backend.NewClient(&backend.Options{Addr: addr})
	defer client.Close()

	stream, err := events.Subscribe(ctx, client, c.Config.Events.Channel)
	if err != nil {
		return err
	}
	c.Logger.Info("subscribed", "addr", addr, "channel", c.Config.Events.Channel)

	enc := json.NewEncoder(w)
	for e := range stream {
		if asJSON {
			if err := enc.Encode(e); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(w, formatEvent(e))
	}
	return ctx.Err()
}

// formatEvent renders e as one human-readable line.
func formatEvent(e events.Event) string {
	ts := StyleDim.Render(e.Time.Local().Format("15:04:05.000"))
	kind := StyleHighlight.Render(fmt.Sprintf("%-11s", e.Type))

	var detail string
	switch e.Type {
	case events.TypeOpenWindow:
		detail = fmt.Sprintf("%s on workspace %d", e.Window, e.Workspace)
	case events.TypeCloseWindow:
		detail = fmt.Sprintf("%s on workspace %d", e.Window, e.Workspace)
		if e.Collapsed > 0 {
			detail += fmt.Sprintf(", %s collapsed", plural(e.Collapsed, "group"))
		}
	case events.TypeSplit:
		detail = fmt.Sprintf("%s → %s", e.Window, e.Layout)
	case events.TypeRecalc:
		detail = fmt.Sprintf("%s in %s", plural(e.Nodes, "node"), e.Duration)
	case events.TypeFault:
		detail = StyleWarning.Render(e.Code)
	}
	return ts + " " + kind + " " + detail
}
