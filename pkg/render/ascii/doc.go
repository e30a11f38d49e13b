// Package ascii draws tiled window rects on a character grid.
//
// The canvas maps a workspace's bounds onto a fixed number of columns and
// rows. Each window is drawn as a box-drawing frame with its handle in the
// top-left corner. Windows in a tabbed group share a rect, so the last one
// drawn wins.
//
//	snap := graph.FromStore(engine.Store())
//	fmt.Println(ascii.Workspace(snap, 1, ascii.Options{Width: 80, Height: 24}))
package ascii
