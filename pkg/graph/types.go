package graph

import (
	"slices"

	"github.com/matzehuels/tiletree/pkg/tree"
)

// Node kinds.
const (
	KindGroup  = "group"
	KindWindow = "window"
)

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot is a point-in-time copy of one or more workspace trees.
type Snapshot struct {
	Workspaces []Workspace `json:"workspaces"`
	Nodes      []Node      `json:"nodes"`
}

// Workspace summarizes one workspace in a snapshot.
type Workspace struct {
	ID      int    `json:"id"`
	Root    string `json:"root,omitempty"`
	Nodes   int    `json:"nodes"`
	Windows int    `json:"windows"`
}

// Node is one tree node.
type Node struct {
	ID        string   `json:"id"`
	Parent    string   `json:"parent,omitempty"`
	Kind      string   `json:"kind"`
	Layout    string   `json:"layout,omitempty"`
	Window    string   `json:"window,omitempty"`
	Rect      Rect     `json:"rect"`
	Ratio     float64  `json:"ratio"`
	Workspace int      `json:"workspace"`
	Children  []string `json:"children,omitempty"`
}

// IsGroup returns true for group nodes.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup }

// Label returns the window handle for leaves and the layout for groups.
func (n *Node) Label() string {
	if n.Kind == KindWindow {
		return n.Window
	}
	return n.Layout
}

// Rect is a serialized rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ToTree converts r back to a tree.Rect.
func (r Rect) ToTree() tree.Rect { return tree.R(r.X, r.Y, r.W, r.H) }

func rectFrom(r tree.Rect) Rect {
	return Rect{X: r.Pos.X, Y: r.Pos.Y, W: r.Size.X, H: r.Size.Y}
}

// =============================================================================
// Store → Snapshot
// =============================================================================

// FromStore copies the trees of the given workspaces, or of every workspace
// when none are given. Nodes not reachable from a workspace root are listed
// after the reachable ones so a snapshot of a damaged tree is still complete.
func FromStore(s *tree.Store, workspaces ...tree.WorkspaceID) Snapshot {
	if len(workspaces) == 0 {
		workspaces = s.Workspaces()
	}

	snap := Snapshot{
		Workspaces: make([]Workspace, 0, len(workspaces)),
		Nodes:      []Node{},
	}
	seen := make(map[tree.NodeID]bool)

	for _, ws := range workspaces {
		summary := Workspace{
			ID:      int(ws),
			Nodes:   s.CountInWorkspace(ws),
			Windows: s.CountLeavesInWorkspace(ws),
		}
		if root, ok := s.WorkspaceRoot(ws); ok {
			summary.Root = root.String()
			s.Walk(root, func(n *tree.Node, _ int) bool {
				if seen[n.ID] {
					return false
				}
				seen[n.ID] = true
				snap.Nodes = append(snap.Nodes, nodeFrom(n))
				return true
			})
		}
		snap.Workspaces = append(snap.Workspaces, summary)
	}

	for n := range s.All() {
		if !seen[n.ID] && slices.Contains(workspaces, n.Workspace) {
			snap.Nodes = append(snap.Nodes, nodeFrom(n))
		}
	}
	return snap
}

func nodeFrom(n *tree.Node) Node {
	out := Node{
		ID:        n.ID.String(),
		Rect:      rectFrom(n.Rect()),
		Ratio:     n.SizeRatio,
		Workspace: int(n.Workspace),
	}
	if !n.IsRoot() {
		out.Parent = n.Parent.String()
	}
	if h, ok := n.Window(); ok {
		out.Kind = KindWindow
		out.Window = string(h)
		return out
	}
	g, _ := n.Group()
	out.Kind = KindGroup
	out.Layout = g.Layout.String()
	out.Children = make([]string, len(g.Children))
	for i, c := range g.Children {
		out.Children[i] = c.String()
	}
	return out
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node with the given ID.
func (s *Snapshot) Node(id string) (*Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// Windows returns the window leaves of ws in tree order.
func (s *Snapshot) Windows(ws int) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Workspace == ws && n.Kind == KindWindow {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the parentless nodes in snapshot order.
func (s *Snapshot) Roots() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Parent == "" {
			out = append(out, n)
		}
	}
	return out
}
