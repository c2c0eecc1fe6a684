// Package render draws flowchart documents as static diagrams.
//
// # Overview
//
// Documents are converted to Graphviz DOT with [ToDOT] and laid out in-process
// by [github.com/goccy/go-graphviz]; no Graphviz installation is needed.
//
//	dot := render.ToDOT(fc, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [Render] produces several formats at once:
//
//	out, err := render.Render(ctx, fc, render.Options{}, render.FormatSVG, render.FormatPNG)
//
// # Appearance
//
// Boxes keep their stored width and height (pixels at 72 dpi). Completed
// tasks are filled with the theme's completed colour and prefixed with a
// check mark. Edges are solid arrows leaving and entering the handle sides
// they were drawn from; parent-child tree links are dashed. A node's own
// colour, if set, overrides the theme fill.
//
// Colours come from [Theme]; [DefaultTheme] matches the editor palette.
//
// # Positions
//
// By default Graphviz lays the diagram out top to bottom. With
// [Options.Positions] set, stored canvas positions are pinned instead.
package render
