// Package render provides visual output for layout trees.
//
// # Overview
//
// Two renderers live below this package:
//
//   - [nodelink]: the tree structure as a Graphviz diagram (DOT, SVG)
//   - [ascii]: the tiled rects of one workspace drawn on a character grid
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg. Use [Available] to check for it before offering those
// formats.
//
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := render.ToPNG(svg, 2.0)
//
// [nodelink]: github.com/matzehuels/tiletree/pkg/render/nodelink
// [ascii]: github.com/matzehuels/tiletree/pkg/render/ascii
package render
