package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/tree"
)

// dpi converts stored pixel sizes to Graphviz inches.
const dpi = 72.0

// CheckMark prefixes the label of completed tasks.
const CheckMark = "✓ "

// Options configures diagram rendering.
type Options struct {
	// Theme supplies colours; empty fields use [DefaultTheme].
	Theme Theme

	// Selected nodes are filled with the theme's selection colour.
	Selected []string

	// Positions pins nodes at their stored canvas positions instead of
	// letting Graphviz lay them out.
	Positions bool

	// NoTreeLinks omits the dashed parent-child links.
	NoTreeLinks bool
}

// ToDOT converts a flowchart to Graphviz DOT.
// The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(fc *flowchart.Flowchart, opts Options) string {
	th := opts.Theme.WithDefaults()
	selected := make(map[string]bool, len(opts.Selected))
	for _, id := range opts.Selected {
		selected[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Positions {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=true;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontname=%q;\n  fontcolor=%q;\n",
		fc.DisplayTitle(), th.FontName, th.Text)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=%q, fontsize=%g, fontcolor=%q, color=%q];\n",
		th.FontName, th.FontSize, th.Text, th.Border)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.7];\n", th.Line)
	buf.WriteString("\n")

	for _, n := range fc.Nodes {
		attrs := nodeAttrs(n, th, selected[n.ID], opts.Positions)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range fc.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	if !opts.NoTreeLinks {
		t := tree.Build(fc.Nodes)
		for _, parent := range t.Nodes() {
			for _, child := range t.Children(parent.ID) {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none, constraint=false];\n", parent.ID, child.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n flowchart.Node, th Theme, selected, pinned bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n)),
		fmt.Sprintf("width=%.3f", n.Width/dpi),
		fmt.Sprintf("height=%.3f", n.Height/dpi),
		fmt.Sprintf("fillcolor=%q", fillColor(n, th, selected)),
	}
	if n.Ext.Note != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Ext.Note))
	}
	if pinned {
		// Canvas y grows downwards, Graphviz y upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Position.X/dpi, 0-n.Position.Y/dpi))
	}
	return attrs
}

func fmtLabel(n flowchart.Node) string {
	label := n.DisplayLabel()
	if n.Kind.Completable() && n.Completed {
		label = CheckMark + label
	}
	return label
}

func fillColor(n flowchart.Node, th Theme, selected bool) string {
	switch {
	case selected:
		return th.Selected
	case n.Ext.Color != "":
		return n.Ext.Color
	case n.Kind.Completable() && n.Completed:
		return th.Completed
	case n.Kind == flowchart.KindSimple:
		return th.SimpleFill
	}
	return th.NodeFill
}

func edgeAttrs(e flowchart.Edge) []string {
	var attrs []string
	if p := compass(e.SourceHandle); p != "" {
		attrs = append(attrs, "tailport="+p)
	}
	if p := compass(e.TargetHandle); p != "" {
		attrs = append(attrs, "headport="+p)
	}
	return attrs
}

// compass maps a handle name to a Graphviz port. Handle ids may carry a
// suffix, e.g. "bottom-source".
func compass(handle string) string {
	side, _, _ := strings.Cut(handle, "-")
	switch side {
	case "top":
		return "n"
	case "bottom":
		return "s"
	case "left":
		return "w"
	case "right":
		return "e"
	}
	return ""
}
