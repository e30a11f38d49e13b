package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletree/pkg/buildinfo"
	"github.com/matzehuels/tiletree/pkg/config"
	"github.com/matzehuels/tiletree/pkg/events"
	"github.com/matzehuels/tiletree/pkg/layout"
	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/sim"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tiletree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     config.Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "tiletree lays out tiling window trees",
		Long:              `tiletree is a dwindle-style tiling layout engine. The CLI replays compositor scenarios against the engine, draws the resulting trees, and serves a debug API.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tiletree/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.replayCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.eventsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config and applies the log level. --verbose wins over the
// configured level.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, path, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config", "path", path, "level", level)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) loadConfig() (config.Config, string, error) {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		return cfg, c.configPath, err
	}
	return config.LoadDefault()
}

// =============================================================================
// Engine Factory
// =============================================================================

// engineHooks builds the layout hooks for a command: extra plus Redis events
// when configured. The returned close func releases the publisher.
func (c *CLI) engineHooks(ctx context.Context, extra ...observability.LayoutHooks) (observability.LayoutHooks, func() error) {
	hooks := observability.MultiLayoutHooks(extra)

	closer := func() error { return nil }
	if addr := c.Config.Events.RedisAddr; addr != "" {
		pub := events.NewRedisPublisher(addr, c.Config.Events.Channel)
		if err := pub.Ping(ctx); err != nil {
			c.Logger.Warn("event publishing disabled", "addr", addr, "error", err)
			pub.Close()
		} else {
			c.Logger.Info("publishing events", "addr", addr, "channel", pub.Channel())
			hooks = append(hooks, events.NewHooks(pub, events.WithLogger(c.Logger)))
			closer = pub.Close
		}
	}

	if len(hooks) == 0 {
		return observability.NoopLayoutHooks{}, closer
	}
	return hooks, closer
}

// engineOptions returns the layout options every command uses.
func (c *CLI) engineOptions(hooks observability.LayoutHooks) []layout.Option {
	return []layout.Option{layout.WithLogger(engineLogger(c.Logger)), layout.WithHooks(hooks)}
}

// loadScenario reads a scenario file and logs its summary.
func (c *CLI) loadScenario(path string) (*sim.Scenario, error) {
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("scenario", "path", path, "monitors", len(sc.Monitors), "steps", len(sc.Steps))
	return sc, nil
}
