// Package nodelink renders layout trees as node-link diagrams.
//
// # Overview
//
// This package turns a [graph.Snapshot] into Graphviz DOT, one cluster per
// workspace, with an edge from every group to each of its children in
// order. Groups are labeled with their layout (splith, splitv, tabbed) and
// window leaves with their handle and assigned rect.
//
// # Usage
//
//	snap := graph.FromStore(engine.Store())
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
