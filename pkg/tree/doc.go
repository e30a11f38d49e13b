// Package tree provides the node arena behind tiletree's tiling layouts.
//
// # Overview
//
// A tiling layout is a forest: every workspace owns at most one root group,
// groups nest other groups, and the leaves are windows. This package holds
// that forest in a [Store], an arena of slots addressed by [NodeID]. Nodes
// refer to each other (parent upward, children downward) only by ID, never
// by pointer, so the tree has no shared ownership and no reference cycles
// that the garbage collector or a reader has to reason about.
//
// # Node Data
//
// Each [Node] carries a [Data] payload, a closed sum type with two variants:
//
//   - [Window]: a leaf holding an opaque host [WindowHandle]
//   - [*Group]: a container with a [Layout] (SplitH, SplitV, Tabbed) and an
//     ordered list of child IDs
//
// Swapping a node's payload is an ordinary assignment. The node keeps its
// identity, rect, ratio and parent link while its kind flips, which is what
// the split command relies on:
//
//	n, _ := s.Node(id)
//	displaced := n.Data
//	n.Data = tree.NewGroup(tree.SplitV)
//
// # Stable IDs
//
// [Store.Allocate] returns a [NodeID] made of a slot index and a generation.
// [Store.Remove] frees the slot and bumps its generation, so an ID held past
// removal never resolves to whatever is allocated into that slot later:
//
//	id := s.Allocate(tree.Window{Handle: "a"}, tree.NodeID{}, 1)
//	s.Remove(id)
//	_, ok := s.Node(id) // ok == false, even after the slot is reused
//
// # Invariants
//
// [Store.Validate] checks the structural invariants the layout engine keeps
// after every operation:
//
//   - a node's parent is a group whose children contain the node exactly once
//   - groups reachable from a root are never empty
//   - each workspace has at most one root, and a root is always a group
//   - children lists reference only live nodes
//
// # Concurrency
//
// Store is not safe for concurrent use. The layout engine runs on a single
// host thread; concurrent hosts must serialize access themselves.
package tree
