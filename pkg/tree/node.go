package tree

import (
	"fmt"
	"slices"
)

// WindowHandle is the host's opaque identifier for a window.
// The tree never interprets it beyond equality.
type WindowHandle string

// WorkspaceID identifies a host workspace. Hosts may use negative IDs for
// special (scratchpad-like) workspaces.
type WorkspaceID int

// NodeID addresses a node in a [Store]. The zero value refers to no node and
// is used for "no parent".
type NodeID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id refers to no node.
func (id NodeID) IsZero() bool { return id.gen == 0 }

// String renders the ID as "n<index>.<generation>", or "-" for the zero ID.
func (id NodeID) String() string {
	if id.IsZero() {
		return "-"
	}
	return fmt.Sprintf("n%d.%d", id.index, id.gen)
}

// Layout is the split axis of a group.
type Layout int

const (
	// SplitH lays children out left to right, dividing the group's width.
	SplitH Layout = iota
	// SplitV lays children out top to bottom, dividing the group's height.
	SplitV
	// Tabbed stacks every child on the group's full rect.
	// Selecting a single visible tab is not implemented.
	Tabbed
)

// String returns the command keyword for the layout.
func (l Layout) String() string {
	switch l {
	case SplitH:
		return "splith"
	case SplitV:
		return "splitv"
	case Tabbed:
		return "tabbed"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// Data is the payload of a node: either a [Window] leaf or a [*Group].
// The interface is sealed; no other implementations exist.
type Data interface {
	isData()
}

// Window is the leaf payload holding a host window handle.
type Window struct {
	Handle WindowHandle
}

func (Window) isData() {}

// Group is the container payload. Children are ordered and non-owning.
type Group struct {
	Layout   Layout
	Children []NodeID
}

func (*Group) isData() {}

// NewGroup returns an empty group with the given layout.
func NewGroup(l Layout) *Group {
	return &Group{Layout: l}
}

// IndexOf returns the position of id in the children list, or -1.
func (g *Group) IndexOf(id NodeID) int {
	return slices.Index(g.Children, id)
}

// Append adds id as the last child.
func (g *Group) Append(id NodeID) {
	g.Children = append(g.Children, id)
}

// InsertAfter places id directly after ref. If ref is not a child, id is
// appended instead.
func (g *Group) InsertAfter(ref, id NodeID) {
	i := g.IndexOf(ref)
	if i < 0 {
		g.Append(id)
		return
	}
	g.Children = slices.Insert(g.Children, i+1, id)
}

// RemoveChild deletes id from the children list and reports whether it was
// present.
func (g *Group) RemoveChild(id NodeID) bool {
	i := g.IndexOf(id)
	if i < 0 {
		return false
	}
	g.Children = slices.Delete(g.Children, i, i+1)
	return true
}

// Node is a single element of the layout tree.
//
// Position and Size hold the absolute rect last assigned by the geometry
// pass. SizeRatio weights the node among its siblings along the parent's
// split axis and defaults to 1.
type Node struct {
	ID        NodeID
	Parent    NodeID
	Data      Data
	Position  Vec
	Size      Vec
	SizeRatio float64
	Workspace WorkspaceID
}

// Rect returns the node's assigned rect.
func (n *Node) Rect() Rect { return Rect{Pos: n.Position, Size: n.Size} }

// SetRect assigns the node's position and size.
func (n *Node) SetRect(r Rect) {
	n.Position = r.Pos
	n.Size = r.Size
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent.IsZero() }

// Group returns the group payload and true if the node is a group.
func (n *Node) Group() (*Group, bool) {
	g, ok := n.Data.(*Group)
	return g, ok
}

// Window returns the window handle and true if the node is a leaf.
func (n *Node) Window() (WindowHandle, bool) {
	w, ok := n.Data.(Window)
	return w.Handle, ok
}

// IsGroup reports whether the node is a group.
func (n *Node) IsGroup() bool {
	_, ok := n.Data.(*Group)
	return ok
}
