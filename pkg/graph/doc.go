// Package graph provides the serialization format for layout trees.
//
// This package defines tiletree's canonical JSON snapshot of a node store,
// used by the CLI, the debug API, and the node-link renderer.
//
// # Architecture
//
// The package sits at the boundary between the live tree and external
// formats:
//
//   - [Snapshot], [Node], [Workspace]: serialization types (this package)
//   - pkg/tree.Store: the live arena
//
// Use [FromStore] to take a snapshot. Snapshots are export only: there is no
// way to load one back into an engine, the tree is always rebuilt from the
// host's window list.
//
// # Format
//
// Nodes are listed per workspace in pre-order starting at the workspace root,
// so parents always precede their children:
//
//	{
//	  "workspaces": [{"id": 1, "root": "n0.1", "nodes": 3, "windows": 2}],
//	  "nodes": [
//	    {"id": "n0.1", "kind": "group", "layout": "splith", "children": ["n1.1", "n2.1"], ...},
//	    {"id": "n1.1", "parent": "n0.1", "kind": "window", "window": "term", ...},
//	    {"id": "n2.1", "parent": "n0.1", "kind": "window", "window": "browser", ...}
//	  ]
//	}
//
// Common operations:
//
//	snap := graph.FromStore(engine.Store())        // Store → Snapshot
//	graph.WriteSnapshot(snap, os.Stdout)           // Snapshot → JSON
//	graph.WriteSnapshotFile(snap, "tree.json")     // Snapshot → File
//
// # Concurrency
//
// A Snapshot shares nothing with the store it was taken from and is safe for
// concurrent reads. Taking a snapshot requires exclusive access to the store.
package graph
