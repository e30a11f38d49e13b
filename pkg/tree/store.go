package tree

import (
	"iter"
	"maps"
	"slices"
)

type slot struct {
	gen  uint32
	node *Node // nil while the slot is free
}

// Store is the arena that owns every node of every workspace tree.
//
// Nodes live on the heap and are reached through their slot, so a *Node
// obtained from [Store.Node] stays usable across later allocations. It must
// not be kept past [Store.Remove] of that node.
//
// The zero value is not usable - use New.
type Store struct {
	slots []slot
	free  []uint32
	live  int
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Allocate creates a node holding data under parent on workspace ws and
// returns its ID. The node starts with SizeRatio 1 and an empty rect.
//
// Allocate does not link the node into the parent's children list; callers
// splice it where it belongs.
func (s *Store) Allocate(data Data, parent NodeID, ws WorkspaceID) NodeID {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}

	sl := &s.slots[idx]
	sl.gen++
	id := NodeID{index: idx, gen: sl.gen}
	sl.node = &Node{
		ID:        id,
		Parent:    parent,
		Data:      data,
		SizeRatio: 1,
		Workspace: ws,
	}
	s.live++
	return id
}

// Remove invalidates id and frees its slot. The slot generation is bumped on
// reuse, so id never resolves again. Remove reports whether id was live.
//
// Remove does not touch parent or children links; callers detach first.
func (s *Store) Remove(id NodeID) bool {
	if _, ok := s.Node(id); !ok {
		return false
	}
	s.slots[id.index].node = nil
	s.free = append(s.free, id.index)
	s.live--
	return true
}

// Node returns the live node for id.
func (s *Store) Node(id NodeID) (*Node, bool) {
	if id.IsZero() || int(id.index) >= len(s.slots) {
		return nil, false
	}
	sl := s.slots[id.index]
	if sl.node == nil || sl.gen != id.gen {
		return nil, false
	}
	return sl.node, true
}

// Contains reports whether id refers to a live node.
func (s *Store) Contains(id NodeID) bool {
	_, ok := s.Node(id)
	return ok
}

// Len returns the number of live nodes across all workspaces.
func (s *Store) Len() int { return s.live }

// Reset removes every node. IDs issued before Reset never resolve again.
func (s *Store) Reset() {
	for i := range s.slots {
		if s.slots[i].node != nil {
			s.slots[i].node = nil
			s.free = append(s.free, uint32(i))
		}
	}
	s.live = 0
}

// All iterates over live nodes in slot order.
func (s *Store) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, sl := range s.slots {
			if sl.node == nil {
				continue
			}
			if !yield(sl.node) {
				return
			}
		}
	}
}

// FindByWindow returns the leaf holding h. It is a linear scan.
func (s *Store) FindByWindow(h WindowHandle) (NodeID, bool) {
	for n := range s.All() {
		if w, ok := n.Window(); ok && w == h {
			return n.ID, true
		}
	}
	return NodeID{}, false
}

// WorkspaceRoot returns the first parentless group on ws.
func (s *Store) WorkspaceRoot(ws WorkspaceID) (NodeID, bool) {
	for n := range s.All() {
		if n.Workspace == ws && n.IsRoot() && n.IsGroup() {
			return n.ID, true
		}
	}
	return NodeID{}, false
}

// CountInWorkspace returns the number of live nodes (groups and leaves) on ws.
func (s *Store) CountInWorkspace(ws WorkspaceID) int {
	count := 0
	for n := range s.All() {
		if n.Workspace == ws {
			count++
		}
	}
	return count
}

// CountLeavesInWorkspace returns the number of window leaves on ws.
func (s *Store) CountLeavesInWorkspace(ws WorkspaceID) int {
	count := 0
	for n := range s.All() {
		if _, ok := n.Window(); ok && n.Workspace == ws {
			count++
		}
	}
	return count
}

// Workspaces returns the IDs of all workspaces holding at least one node,
// sorted ascending.
func (s *Store) Workspaces() []WorkspaceID {
	seen := make(map[WorkspaceID]struct{})
	for n := range s.All() {
		seen[n.Workspace] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Children returns the child IDs of a group node, or nil for leaves and
// unknown IDs. The slice is the group's own; do not modify it.
func (s *Store) Children(id NodeID) []NodeID {
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	if g, ok := n.Group(); ok {
		return g.Children
	}
	return nil
}

// Detach removes id from its parent's children list and returns the parent
// ID. The node's own Parent field is left untouched so callers can keep
// ascending after removing it. A parentless node returns the zero ID.
func (s *Store) Detach(id NodeID) NodeID {
	n, ok := s.Node(id)
	if !ok || n.IsRoot() {
		return NodeID{}
	}
	if p, ok := s.Node(n.Parent); ok {
		if g, ok := p.Group(); ok {
			g.RemoveChild(id)
		}
	}
	return n.Parent
}

// Walk visits the subtree rooted at id in pre-order, passing each node and
// its depth below id. Returning false from fn skips that node's children.
func (s *Store) Walk(id NodeID, fn func(n *Node, depth int) bool) {
	s.walk(id, 0, fn)
}

func (s *Store) walk(id NodeID, depth int, fn func(*Node, int) bool) {
	n, ok := s.Node(id)
	if !ok {
		return
	}
	if !fn(n, depth) {
		return
	}
	if g, ok := n.Group(); ok {
		for _, c := range g.Children {
			s.walk(c, depth+1, fn)
		}
	}
}

// Ancestors returns the parent chain of id, nearest first.
func (s *Store) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	n, ok := s.Node(id)
	for ok && !n.IsRoot() {
		out = append(out, n.Parent)
		n, ok = s.Node(n.Parent)
	}
	return out
}
