package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/tree"
)

// treeCommand prints a node's relatives in the parent/child tree.
func (c *CLI) treeCommand() *cobra.Command {
	var kind, label string

	cmd := &cobra.Command{
		Use:   "tree [id]",
		Short: "Show a node's relatives, or the whole tree",
		Long: `Without an id, print the parent/child forest. With an id, print the node's
ancestors, descendants and siblings. --kind and --label instead list every
relative that matches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ws, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			ws.Close()

			t := tree.Build(fc.Nodes)
			if len(args) == 0 {
				printForest(t)
				return nil
			}

			id := nodeRef(args[0])
			n, ok := t.Node(id)
			if !ok {
				return errors.New(errors.ErrCodeNodeNotFound, "no node %q", id)
			}
			fmt.Println(StyleTitle.Render(n.DisplayLabel()) + " " + StyleDim.Render("("+n.ID+")"))

			if kind != "" || label != "" {
				filter := func(flowchart.Node) bool { return true }
				if kind != "" {
					k, err := flowchart.ParseKind(kind)
					if err != nil {
						return err
					}
					filter = func(r flowchart.Node) bool { return r.Kind == k }
				}
				keep := filter
				if label != "" {
					keep = func(r flowchart.Node) bool { return filter(r) && r.Label == label }
				}
				printRelatives("Related", t.RelatedFunc(id, keep))
				return nil
			}

			if p, ok := t.Parent(id); ok {
				printRelatives("Parent", []flowchart.Node{p})
			}
			printRelatives("Ancestors", t.Ancestors(id))
			printRelatives("Descendants", t.Descendants(id))
			printRelatives("Siblings", t.Siblings(id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only relatives of this kind")
	cmd.Flags().StringVarP(&label, "label", "l", "", "only relatives with exactly this label")

	return cmd
}

func printRelatives(heading string, nodes []flowchart.Node) {
	fmt.Println(StyleDim.Render(fmt.Sprintf("%s (%d)", heading, len(nodes))))
	for _, n := range nodes {
		fmt.Printf("  %s %s\n", StyleHighlight.Render(n.ID), StyleValue.Render(oneLine(n.Label, 48)))
	}
}

// printForest prints every root with its descendants indented below it.
func printForest(t *tree.Tree) {
	roots := t.Roots()
	if len(roots) == 0 {
		printInfo("No nodes")
		return
	}
	seen := make(map[string]bool, t.Len())
	var walk func(n flowchart.Node, depth int)
	walk = func(n flowchart.Node, depth int) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		indent := fmt.Sprintf("%*s", depth*2, "")
		fmt.Printf("%s%s %s %s\n", indent, completionMarkOr(n, iconInfo), StyleHighlight.Render(n.ID), oneLine(n.Label, 48))
		for _, child := range t.Children(n.ID) {
			walk(child, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}

func completionMarkOr(n flowchart.Node, fallback string) string {
	if m := completionMark(n); m != "" {
		return StyleSuccess.Render(m)
	}
	return StyleDim.Render(fallback)
}
