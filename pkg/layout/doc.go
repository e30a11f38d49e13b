// Package layout implements the tiling engine that owns a [tree.Store] and
// keeps it in step with host window events.
//
// # Overview
//
// The [Engine] reacts to four kinds of host input:
//
//   - A window became tileable: [Engine.OnWindowCreated] attaches a leaf next
//     to a reference window, creating the workspace root on first use.
//   - A window stopped being tileable: [Engine.OnWindowRemoved] detaches its
//     leaf and prunes every group left empty above it.
//   - A layout command: [Engine.Message] understands "splith" and "splitv",
//     which wrap the target window in a new one-child group.
//   - Activation: [Engine.Enable] rebuilds the tree from the host's current
//     window list.
//
// Every mutation ends with a geometry pass ([Engine.Recalc]) over the
// affected subtree. Group rects are divided among children and each leaf's
// final rect is handed to the [Placement] collaborator.
//
// # Geometry
//
// For SplitH groups, child i receives width ratio_i * (W / n) where W is the
// group's width and n the child count. Children are laid out left to right
// starting at the group's x; every child gets the full group height. SplitV
// is the same on the vertical axis. The divisor is the child count, not the
// sum of ratios, so unequal ratios do not necessarily fill the group exactly.
//
// Tabbed groups give every child the group's full rect. No child is
// selected as the visible tab.
//
// # Collaborators
//
// The engine never reaches into global state. Everything it needs from the
// host comes through the interfaces bundled in [Collaborators]: window
// properties, monitor rects, focus and pointer, fullscreen state, window
// decorations, and leaf placement.
//
// # Faults
//
// Public operations never return errors. Faults are logged at error level
// with a "code" key taken from pkg/errors and reported to
// [observability.LayoutHooks.OnFault]:
//
//   - STRUCTURAL_VIOLATION: an insertion target is not a group. Nothing changes.
//   - ORPHANED_NODE: a workspace has no monitor. The leaf keeps its node but
//     is not placed.
//   - UNKNOWN_WINDOW: removal or split named a window that is not tiled.
//   - INVALID_WINDOW_HANDLE: placement found the window gone. The window is
//     removed from the tree once the current geometry pass finishes.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Hosts that deliver events from
// several goroutines must serialize calls with a single lock.
package layout
