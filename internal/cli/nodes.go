package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// addOpts holds the flags of the add command.
type addOpts struct {
	kind   string
	x, y   float64
	parent string
}

// addCommand creates a node, optionally labelled and attached to a parent.
func (c *CLI) addCommand() *cobra.Command {
	opts := addOpts{kind: string(flowchart.KindTask)}

	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Add a node",
		Long: `Add a node to the document. The node starts at its kind's default size and
grows to fit the label.

Node ids are "node-N"; commands taking an id also accept the bare number N.`,
		Example: `  flowmap add "Write the proposal"
  flowmap add --kind simple --x 240 --y 80 "Notes"
  flowmap add --parent 1 "Draft outline"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", opts.kind, "node kind: task, simple")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "canvas x position")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "canvas y position")
	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "attach the node under this parent")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, label string, opts addOpts) error {
	kind, err := flowchart.ParseKind(opts.kind)
	if err != nil {
		return err
	}

	var n flowchart.Node
	if _, err := c.update(ctx, func(ed *flowchart.Editor) error {
		if n, err = ed.AddNode(kind, flowchart.Position{X: opts.x, Y: opts.y}); err != nil {
			return err
		}
		if label != "" {
			if n, err = ed.SetLabel(ctx, n.ID, label); err != nil {
				return err
			}
		}
		if opts.parent != "" {
			return ed.SetParent(n.ID, nodeRef(opts.parent))
		}
		return nil
	}); err != nil {
		return err
	}

	printSuccess("Added %s %s", StyleHighlight.Render(n.ID), StyleDim.Render(fmt.Sprintf("(%s, %s)", n.Kind, sizeText(n))))
	return nil
}

// labelCommand replaces a node's label.
func (c *CLI) labelCommand() *cobra.Command {
	return positionalArgs(&cobra.Command{
		Use:   "label <id> <text>...",
		Short: "Set a node's label",
		Long: `Set a node's label. The box grows to fit the text unless it was resized by
hand; clearing the label to a few characters drops the manual size. Use a
literal "\n" for line breaks. Flags go before the id, so text may start with "-".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := nodeRef(args[0])
			text := strings.ReplaceAll(strings.Join(args[1:], " "), `\n`, "\n")

			var before, after flowchart.Node
			if _, err := c.update(ctx, func(ed *flowchart.Editor) error {
				var err error
				if before, err = nodeOf(ed, id); err != nil {
					return err
				}
				after, err = ed.SetLabel(ctx, id, text)
				return err
			}); err != nil {
				return err
			}

			printSuccess("Labelled %s", StyleHighlight.Render(id))
			if before.Width != after.Width || before.Height != after.Height {
				printDetail("resized %s %s %s", sizeText(before), iconArrow, sizeText(after))
			}
			return nil
		},
	})
}

// resizeCommand applies an explicit size.
func (c *CLI) resizeCommand() *cobra.Command {
	return positionalArgs(&cobra.Command{
		Use:   "resize <id> <width> <height>",
		Short: "Resize a node by hand",
		Long:  `Resize a node. The size is clamped to the kind's bounds and the node keeps it until its label is nearly emptied.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, h, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}

			var n flowchart.Node
			if _, err := c.update(ctx, func(ed *flowchart.Editor) error {
				n, err = ed.Resize(ctx, nodeRef(args[0]), w, h)
				return err
			}); err != nil {
				return err
			}
			printSuccess("Resized %s to %s", StyleHighlight.Render(n.ID), sizeText(n))
			return nil
		},
	})
}

// moveCommand sets a node's canvas position.
func (c *CLI) moveCommand() *cobra.Command {
	return positionalArgs(&cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Set a node's canvas position",
		Long:  `Set a node's canvas position. Coordinates may be negative; flags go before the id.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args[1], args[2])
			if err != nil {
				return err
			}
			var n flowchart.Node
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				n, err = ed.Move(nodeRef(args[0]), flowchart.Position{X: x, Y: y})
				return err
			}); err != nil {
				return err
			}
			printSuccess("Moved %s to %.0f,%.0f", StyleHighlight.Render(n.ID), n.Position.X, n.Position.Y)
			return nil
		},
	})
}

// positionalArgs stops flag parsing at the first argument so values such as
// "-20" reach the command as arguments.
func positionalArgs(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// completionStateCommand creates "done" (done=true) or "undo" (done=false).
func (c *CLI) completionStateCommand(done bool) *cobra.Command {
	use, short, verb := "done <id>...", "Mark tasks complete", "Completed"
	if !done {
		use, short, verb = "undo <id>...", "Mark tasks not complete", "Reopened"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := nodeRefs(args)
			fc, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				for _, id := range ids {
					if _, err := ed.SetCompleted(id, done); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("%s %s", verb, StyleHighlight.Render(strings.Join(ids, ", ")))
			printDetail("%s", progressBar(fc.Stats(), 20))
			return nil
		},
	}
}

// parentCommand attaches or detaches a node in the parent/child tree.
func (c *CLI) parentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parent <child> [parent]",
		Short: "Attach a node under a parent, or detach it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			child := nodeRef(args[0])
			var parent string
			if len(args) == 2 {
				parent = nodeRef(args[1])
			}
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				return ed.SetParent(child, parent)
			}); err != nil {
				return err
			}
			if parent == "" {
				printSuccess("Detached %s", StyleHighlight.Render(child))
			} else {
				printSuccess("%s is now a child of %s", StyleHighlight.Render(child), StyleHighlight.Render(parent))
			}
			return nil
		},
	}
}

// annotateCommand sets a node's note and color.
func (c *CLI) annotateCommand() *cobra.Command {
	var note, color string

	cmd := &cobra.Command{
		Use:   "annotate <id>",
		Short: "Set a node's note or fill color",
		Long:  `Set a node's note or fill color. Flags that are not given keep their current value; pass an empty string to clear one.`,
		Example: `  flowmap annotate 3 --note "blocked on review"
  flowmap annotate 3 --color "#fde68a"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := nodeRef(args[0])
			flags := cmd.Flags()
			if !flags.Changed("note") && !flags.Changed("color") {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change (use --note or --color)")
			}
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				n, err := nodeOf(ed, id)
				if err != nil {
					return err
				}
				ext := n.Ext
				if flags.Changed("note") {
					ext.Note = note
				}
				if flags.Changed("color") {
					ext.Color = color
				}
				_, err = ed.SetExtension(id, ext)
				return err
			}); err != nil {
				return err
			}
			printSuccess("Annotated %s", StyleHighlight.Render(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	cmd.Flags().StringVar(&color, "color", "", "fill color (#rgb or #rrggbb)")

	return cmd
}

// rmCommand deletes nodes together with their edges and tree links.
func (c *CLI) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete nodes and their edges",
		Long:  `Delete nodes, every edge touching them and their parent/child links. Nothing is deleted if any id is unknown.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := nodeRefs(args)
			var edges int
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				before := len(ed.Flowchart().Edges)
				if err := ed.DeleteNodes(ids...); err != nil {
					return err
				}
				edges = before - len(ed.Flowchart().Edges)
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(strings.Join(ids, ", ")))
			if edges > 0 {
				printDetail("%s removed", plural(edges, "edge"))
			}
			return nil
		},
	}
}

// nodeOf returns the editor's current copy of node id.
func nodeOf(ed *flowchart.Editor, id string) (flowchart.Node, error) {
	n, ok := ed.Flowchart().Node(id)
	if !ok {
		return flowchart.Node{}, errors.New(errors.ErrCodeNodeNotFound, "no node %q", id)
	}
	return n, nil
}

// parsePair parses two numeric arguments.
func parsePair(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "not a number: %q", a)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "not a number: %q", b)
	}
	return x, y, nil
}
