// Package cli implements the tiletree command-line interface.
//
// The CLI drives the layout engine against a simulated compositor. Scenario
// files (TOML) describe monitors and a sequence of compositor events; the
// commands replay them and show what the engine made of it.
//
// # Commands
//
// The main commands are:
//   - replay: Run a scenario and print the final window geometry
//   - view: Step through a scenario interactively in the terminal
//   - render: Write the final tree as JSON, DOT, SVG, PNG or PDF
//   - serve: Start the debug HTTP API over a simulated host
//   - events: Print layout events published on Redis
//   - config: Show or create the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it the
// level comes from the config file. The logger is passed through
// context.Context and is also handed to the engine, so faults appear in the
// same stream as command output.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli
