package layout

import (
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// OnWindowCreated tiles h. The new leaf is placed right after the reference
// leaf (the last focused window, else the window under the pointer) in that
// leaf's group, or appended to the workspace root when there is no
// reference. The root is created on first use, sized to the monitor.
//
// Floating windows and windows that are already tiled are ignored.
func (e *Engine) OnWindowCreated(h tree.WindowHandle) {
	w, ok := e.host.Windows.Window(h)
	if !ok {
		e.fault(terrors.ErrCodeInvalidWindowHandle, "cannot tile unknown window", "window", h)
		return
	}
	if w.Floating {
		return
	}
	if e.IsTiled(h) {
		e.logger.Debug("window already tiled", "window", h)
		return
	}

	ref, hasRef := e.referenceLeaf(w)

	var target tree.NodeID
	if hasRef {
		rn, _ := e.store.Node(ref)
		target = rn.Parent
	} else {
		target, ok = e.store.WorkspaceRoot(w.Workspace)
		if !ok {
			m, ok := e.host.Monitors.MonitorFor(w.Workspace)
			if !ok {
				e.fault(terrors.ErrCodeOrphanedNode, "no monitor for new workspace root", "window", h, "workspace", w.Workspace)
				return
			}
			target = e.store.Allocate(tree.NewGroup(tree.SplitH), tree.NodeID{}, w.Workspace)
			root, _ := e.store.Node(target)
			root.SetRect(m.Rect())
		}
	}

	tn, ok := e.store.Node(target)
	if !ok {
		e.fault(terrors.ErrCodeStructuralViolation, "insertion target does not exist", "window", h, "node", target)
		return
	}
	g, ok := tn.Group()
	if !ok {
		e.fault(terrors.ErrCodeStructuralViolation, "insertion target is not a group", "window", h, "node", target)
		return
	}

	leaf := e.store.Allocate(tree.Window{Handle: h}, target, w.Workspace)
	if hasRef {
		g.InsertAfter(ref, leaf)
	} else {
		g.Append(leaf)
	}

	e.logger.Debug("open window", "window", h, "node", leaf, "after", ref, "into", target)
	e.hooks.OnInsert(int(w.Workspace), string(h))

	e.Recalc(target, false)
}

// referenceLeaf resolves the leaf a new window opens next to.
func (e *Engine) referenceLeaf(w Window) (tree.NodeID, bool) {
	if h, ok := e.host.Focus.LastFocused(); ok && h != w.Handle {
		if last, ok := e.host.Windows.Window(h); ok &&
			last.Mapped && !last.Floating && last.Workspace == w.Workspace {
			if id, ok := e.store.FindByWindow(h); ok {
				return id, true
			}
		}
	}

	if h, ok := e.host.Focus.WindowUnderPointer(); ok && h != w.Handle {
		if id, ok := e.store.FindByWindow(h); ok {
			if n, _ := e.store.Node(id); n.Workspace == w.Workspace {
				return id, true
			}
		}
	}

	return tree.NodeID{}, false
}
