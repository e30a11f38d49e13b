package layout

import (
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Message runs a layout command against the window h and returns the
// command's result. "splith" and "splitv" split the window's leaf. Every
// command currently returns an empty result; unknown commands and untiled
// windows do nothing.
func (e *Engine) Message(h tree.WindowHandle, cmd string) string {
	if h == "" {
		return ""
	}

	switch cmd {
	case "splith":
		e.Split(h, tree.SplitH)
	case "splitv":
		e.Split(h, tree.SplitV)
	default:
		e.logger.Debug("ignoring layout message", "window", h, "command", cmd)
	}
	return ""
}

// Split turns h's leaf into a group with the given layout whose only child
// is a new leaf holding h. The converted node keeps its ID, rect, ratio and
// parent, so the window stays where it was until a sibling is inserted next
// to it.
//
// It reports whether the tree changed.
func (e *Engine) Split(h tree.WindowHandle, l tree.Layout) bool {
	id, ok := e.store.FindByWindow(h)
	if !ok {
		e.fault(terrors.ErrCodeUnknownWindow, "split untiled window", "window", h)
		return false
	}
	n, _ := e.store.Node(id)

	group := tree.NewGroup(l)
	displaced := n.Data
	n.Data = group

	child := e.store.Allocate(displaced, id, n.Workspace)
	group.Append(child)

	e.logger.Debug("split", "window", h, "node", id, "layout", l, "child", child)
	e.hooks.OnSplit(string(h), l.String())

	e.Recalc(id, false)
	return true
}
