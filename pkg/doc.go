// Package pkg provides the core libraries for tiletree, a dwindle-style
// tiling layout engine.
//
// # Overview
//
// tiletree keeps one binary tree of windows per workspace. Each new window
// splits an existing leaf in two; closing a window collapses its parent
// group. The engine turns those trees into rectangles and hands them to a
// compositor, which is modelled here by a simulated host so that layouts can
// be replayed, drawn and served without a display server.
//
// The pkg directory is organized into three areas:
//
//  1. Engine - [tree], [layout], [placement]
//  2. Host and tooling - [sim], [graph], [render], [events], [cache]
//  3. Ambient - [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow from a compositor event to pixels:
//
//	host event (map, close, message, monitor change)
//	         ↓
//	    [layout] Engine (insert / remove / split on the [tree] store)
//	         ↓
//	    recalculate (split ratios → logical rectangles)
//	         ↓
//	    [placement] (gaps, borders, fullscreen → rendered rectangles)
//	         ↓
//	    host.Place
//
// Around the engine:
//
//	[sim]   scenario file → simulated host → engine
//	[graph] engine store  → JSON snapshot
//	[render/nodelink], [render/ascii] snapshot → DOT/SVG/PNG/PDF, text
//	[events] engine hooks → Redis pub/sub
//
// # Quick Start
//
// Replay two windows on one monitor and read back their geometry:
//
//	s := sim.New(config.Default())
//	s.AddMonitor(sim.Monitor{
//	    Monitor:   layout.Monitor{Name: "DP-1", Size: tree.Vec{X: 1920, Y: 1080}},
//	    Workspace: 1,
//	})
//	_ = s.Map("term", 1, sim.MapOptions{})
//	_ = s.Map("browser", 1, sim.MapOptions{})
//
//	for _, w := range s.Host.All() {
//	    fmt.Println(w.Handle, w.Geometry.Logical)
//	}
//
// # Main Packages
//
// [tree] - Arena store of nodes with generation-tagged IDs, rectangles and
// structural validation.
//
// [layout] - The engine: window insertion, removal, split commands and
// recalculation. Reports faults through hooks instead of returning errors.
//
// [placement] - Converts logical rectangles into rendered ones (gaps, borders,
// fullscreen and maximized windows).
//
// [sim] - Simulated compositor host and the TOML scenario format.
//
// [graph] - JSON snapshot of one or more workspace trees.
//
// [render/nodelink] - Graphviz diagrams of the tree. [render] converts SVG to
// PDF and PNG.
//
// [render/ascii] - Box drawings of a workspace on a character grid.
//
// [events] - Layout events published to Redis.
//
// [cache] - On-disk cache for rendered diagrams.
//
// [config] - TOML configuration.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hook interfaces and their Prometheus implementation.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/layout/...      # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/layout
// [placement]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/placement
// [sim]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/sim
// [graph]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/render/nodelink
// [render/ascii]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/render/ascii
// [events]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/events
// [cache]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tiletree/pkg/buildinfo
package pkg
