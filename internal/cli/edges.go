package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// connectCommand adds an edge between two nodes.
func (c *CLI) connectCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "connect <source> <target>",
		Short: "Connect two nodes",
		Long: `Connect two nodes with a directed edge. Handles name the side of the box the
edge attaches to (top, bottom, left, right). Connecting the same handles twice
reports the existing edge.`,
		Example: `  flowmap connect 1 2
  flowmap connect 1 2 --from right --to left`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn := flowchart.Connection{
				Source:       nodeRef(args[0]),
				Target:       nodeRef(args[1]),
				SourceHandle: from,
				TargetHandle: to,
			}
			var (
				edge    flowchart.Edge
				created bool
			)
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				var err error
				edge, created, err = ed.Connect(conn)
				return err
			}); err != nil {
				return err
			}

			line := handleText(edge.Source, edge.SourceHandle) + " " + iconArrow + " " + handleText(edge.Target, edge.TargetHandle)
			if created {
				printSuccess("Connected %s", StyleHighlight.Render(line))
			} else {
				printInfo("Already connected %s", StyleHighlight.Render(line))
			}
			printDetail("%s", edge.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source handle")
	cmd.Flags().StringVar(&to, "to", "", "target handle")

	return cmd
}

// disconnectCommand deletes edges by id.
func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <edge-id>...",
		Short: "Delete edges",
		Long:  `Delete edges by id (see "flowmap show"). Nothing is deleted if any id is unknown.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				return ed.DeleteEdges(args...)
			}); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(strings.Join(args, ", ")))
			return nil
		},
	}
}
