package layout

import (
	"slices"
	"time"

	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Recalc propagates id's current rect down its subtree and places every leaf.
// force is passed through to placement.
//
// Windows that placement reports as gone are removed after the outermost
// Recalc returns, so the tree never changes shape during a pass.
func (e *Engine) Recalc(id tree.NodeID, force bool) {
	start := time.Now()

	e.depth++
	e.recalc(id, force)
	e.depth--

	if e.depth > 0 {
		return
	}
	e.hooks.OnRecalc(e.store.Len(), time.Since(start))
	e.drainPending()
}

func (e *Engine) recalc(id tree.NodeID, force bool) {
	n, ok := e.store.Node(id)
	if !ok {
		return
	}

	if h, ok := n.Window(); ok {
		e.place(n, h, force)
		return
	}

	g, _ := n.Group()
	if len(g.Children) == 0 {
		return
	}

	var constraint float64
	switch g.Layout {
	case tree.SplitH:
		constraint = n.Size.X
	case tree.SplitV:
		constraint = n.Size.Y
	}
	share := constraint / float64(len(g.Children))

	offset := 0.0
	for _, cid := range g.Children {
		c, ok := e.store.Node(cid)
		if !ok {
			continue
		}

		switch g.Layout {
		case tree.SplitH:
			c.Position = tree.Vec{X: n.Position.X + offset, Y: n.Position.Y}
			c.Size = tree.Vec{X: c.SizeRatio * share, Y: n.Size.Y}
			offset += c.Size.X
		case tree.SplitV:
			c.Position = tree.Vec{X: n.Position.X, Y: n.Position.Y + offset}
			c.Size = tree.Vec{X: n.Size.X, Y: c.SizeRatio * share}
			offset += c.Size.Y
		case tree.Tabbed:
			c.Position = n.Position
			c.Size = n.Size
		}

		e.recalc(cid, force)
	}
}

func (e *Engine) place(n *tree.Node, h tree.WindowHandle, force bool) {
	if slices.Contains(e.pending, h) {
		return
	}

	err := e.host.Placement.ApplyLeafGeometry(PlacementRequest{
		Window:     h,
		Workspace:  n.Workspace,
		Rect:       n.Rect(),
		TiledCount: e.store.CountLeavesInWorkspace(n.Workspace),
		Force:      force,
	})
	if err == nil {
		return
	}

	switch code := terrors.GetCode(err); code {
	case terrors.ErrCodeInvalidWindowHandle:
		e.fault(code, "node holding invalid window", "node", n.ID, "window", h, "err", err)
		e.pending = append(e.pending, h)
	case terrors.ErrCodeOrphanedNode:
		e.fault(code, "orphaned node", "node", n.ID, "window", h, "workspace", n.Workspace)
	default:
		if code == "" {
			code = terrors.ErrCodeInternal
		}
		e.fault(code, "placement failed", "node", n.ID, "window", h, "err", err)
	}
}

// drainPending removes windows queued during a geometry pass. Each removal
// runs its own pass, which may queue more.
func (e *Engine) drainPending() {
	if e.draining {
		return
	}
	e.draining = true
	defer func() { e.draining = false }()

	for len(e.pending) > 0 {
		h := e.pending[0]
		e.pending = e.pending[1:]
		e.OnWindowRemoved(h)
	}
}

// RecalculateMonitor resizes the root of ws to its monitor's current rect and
// re-runs geometry with force set.
func (e *Engine) RecalculateMonitor(ws tree.WorkspaceID) {
	root, ok := e.store.WorkspaceRoot(ws)
	if !ok {
		return
	}
	m, ok := e.host.Monitors.MonitorFor(ws)
	if !ok {
		e.fault(terrors.ErrCodeOrphanedNode, "workspace has no monitor", "workspace", ws, "node", root)
		return
	}

	n, _ := e.store.Node(root)
	n.SetRect(m.Rect())
	e.Recalc(root, true)
}
