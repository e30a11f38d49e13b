package layout

import (
	terrors "github.com/matzehuels/tiletree/pkg/errors"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// OnWindowRemoved untiles h. The window's decorations are reset and its
// fullscreen state cleared, its leaf is freed, and every group emptied by
// that is removed as well, walking upwards. The first surviving ancestor is
// then recalculated.
func (e *Engine) OnWindowRemoved(h tree.WindowHandle) {
	id, ok := e.store.FindByWindow(h)
	if !ok {
		e.fault(terrors.ErrCodeUnknownWindow, "remove untiled window", "window", h)
		return
	}
	n, _ := e.store.Node(id)
	ws := n.Workspace

	e.host.Decorations.ResetDecorations(h)
	if e.host.Fullscreen.IsFullscreen(h) {
		e.host.Fullscreen.ClearFullscreen(h)
	}

	parent := e.store.Detach(id)
	e.store.Remove(id)

	collapsed := 0
	for !parent.IsZero() && len(e.store.Children(parent)) == 0 {
		empty := parent
		parent = e.store.Detach(empty)
		e.store.Remove(empty)
		collapsed++
	}

	e.logger.Debug("remove window", "window", h, "node", id, "collapsed", collapsed)
	e.hooks.OnRemove(int(ws), string(h), collapsed)

	if !parent.IsZero() {
		e.Recalc(parent, false)
	}
}
