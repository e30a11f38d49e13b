package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingParent is returned by [Store.Validate] when a node's parent
	// ID no longer resolves to a live node.
	ErrDanglingParent = errors.New("parent is not a live node")

	// ErrParentNotGroup is returned by [Store.Validate] when a node's parent
	// is a window leaf.
	ErrParentNotGroup = errors.New("parent is not a group")

	// ErrChildMismatch is returned by [Store.Validate] when parent and child
	// links disagree: the child is missing from its parent's list, listed
	// more than once, or listed under a group that is not its parent.
	ErrChildMismatch = errors.New("parent and children links disagree")

	// ErrDanglingChild is returned by [Store.Validate] when a group lists a
	// child ID that no longer resolves.
	ErrDanglingChild = errors.New("child is not a live node")

	// ErrEmptyGroup is returned by [Store.Validate] when a group has no
	// children. Emptied groups must be removed.
	ErrEmptyGroup = errors.New("group has no children")

	// ErrLeafRoot is returned by [Store.Validate] when a window leaf has no
	// parent. Roots are always groups.
	ErrLeafRoot = errors.New("root is not a group")

	// ErrMultipleRoots is returned by [Store.Validate] when a workspace has
	// more than one parentless node.
	ErrMultipleRoots = errors.New("workspace has more than one root")

	// ErrWorkspaceMismatch is returned by [Store.Validate] when a node and
	// its parent belong to different workspaces.
	ErrWorkspaceMismatch = errors.New("node and parent are on different workspaces")

	// ErrInvalidRatio is returned by [Store.Validate] when a size ratio is
	// not positive.
	ErrInvalidRatio = errors.New("size ratio must be positive")

	// ErrCycle is returned by [Store.Validate] when following parent links
	// does not reach a root.
	ErrCycle = errors.New("parent links contain a cycle")
)

// Validate checks the structural invariants of every workspace tree and
// returns the first violation found, or nil.
func (s *Store) Validate() error {
	roots := make(map[WorkspaceID]NodeID)

	for n := range s.All() {
		if n.SizeRatio <= 0 {
			return fmt.Errorf("%w: node %s has ratio %v", ErrInvalidRatio, n.ID, n.SizeRatio)
		}

		if n.IsRoot() {
			if !n.IsGroup() {
				return fmt.Errorf("%w: node %s", ErrLeafRoot, n.ID)
			}
			if other, dup := roots[n.Workspace]; dup {
				return fmt.Errorf("%w: workspace %d has %s and %s", ErrMultipleRoots, n.Workspace, other, n.ID)
			}
			roots[n.Workspace] = n.ID
		} else if err := s.validateParent(n); err != nil {
			return err
		}

		if g, ok := n.Group(); ok {
			if err := s.validateChildren(n, g); err != nil {
				return err
			}
		}
	}

	return s.validateAcyclic()
}

func (s *Store) validateParent(n *Node) error {
	p, ok := s.Node(n.Parent)
	if !ok {
		return fmt.Errorf("%w: node %s -> %s", ErrDanglingParent, n.ID, n.Parent)
	}
	g, ok := p.Group()
	if !ok {
		return fmt.Errorf("%w: node %s -> %s", ErrParentNotGroup, n.ID, p.ID)
	}
	if p.Workspace != n.Workspace {
		return fmt.Errorf("%w: node %s on %d, parent %s on %d", ErrWorkspaceMismatch, n.ID, n.Workspace, p.ID, p.Workspace)
	}
	count := 0
	for _, c := range g.Children {
		if c == n.ID {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("%w: node %s listed %d times under %s", ErrChildMismatch, n.ID, count, p.ID)
	}
	return nil
}

func (s *Store) validateChildren(n *Node, g *Group) error {
	if len(g.Children) == 0 {
		return fmt.Errorf("%w: node %s", ErrEmptyGroup, n.ID)
	}
	for _, c := range g.Children {
		child, ok := s.Node(c)
		if !ok {
			return fmt.Errorf("%w: %s lists %s", ErrDanglingChild, n.ID, c)
		}
		if child.Parent != n.ID {
			return fmt.Errorf("%w: %s lists %s whose parent is %s", ErrChildMismatch, n.ID, c, child.Parent)
		}
	}
	return nil
}

func (s *Store) validateAcyclic() error {
	limit := s.live
	for n := range s.All() {
		cur, steps := n, 0
		for !cur.IsRoot() {
			next, ok := s.Node(cur.Parent)
			if !ok {
				break
			}
			cur = next
			steps++
			if steps > limit {
				return fmt.Errorf("%w: starting at %s", ErrCycle, n.ID)
			}
		}
	}
	return nil
}
