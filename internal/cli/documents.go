package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/io"
	"github.com/matzehuels/flowmap/pkg/tree"
)

// newCommand creates the new command, which starts an empty document.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Start an empty document",
		Long: `Start an empty document named by --doc.

An existing document is left alone unless --force is given, in which case it
is replaced by an empty one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd.Context(), strings.Join(args, " "), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing document")

	return cmd
}

func (c *CLI) runNew(ctx context.Context, title string, force bool) error {
	ws, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	exists, err := ws.repo.Exists(ctx, c.doc)
	if err != nil {
		return err
	}
	if exists && !force {
		return errors.New(errors.ErrCodeInvalidInput, "document %q already exists (use --force to replace it)", c.doc)
	}

	ed := ws.editor(nil)
	title = ed.SetTitle(title)
	if !c.save(ctx, ws, ed.Flowchart()) {
		return errors.New(errors.ErrCodeStorage, "could not create %q", c.doc)
	}

	printSuccess("Created %s %s", StyleHighlight.Render(c.doc), StyleDim.Render(fmt.Sprintf("(%s)", title)))
	printNextStep("Add a task", appName+" add \"First step\"")
	return nil
}

// titleCommand prints or sets the document title.
func (c *CLI) titleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title [title]",
		Short: "Print or set the document title",
		Long:  `Print the document title, or set it when arguments are given. A blank title restores the default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				fc, ws, err := c.load(ctx)
				if err != nil {
					return err
				}
				ws.Close()
				fmt.Fprintln(cmd.OutOrStdout(), fc.DisplayTitle())
				return nil
			}

			var title string
			if _, err := c.update(ctx, func(ed *flowchart.Editor) error {
				title = ed.SetTitle(strings.Join(args, " "))
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Title set to %s", StyleHighlight.Render(title))
			return nil
		},
	}
}

// clearCommand removes every node and edge from the document.
func (c *CLI) clearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every node and edge",
		Long:  `Remove every node and edge from the document and restart node numbering. The title is kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to clear %q without --yes", c.doc)
			}
			var removed int
			if _, err := c.update(cmd.Context(), func(ed *flowchart.Editor) error {
				removed = len(ed.Flowchart().Nodes)
				ed.Clear()
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Cleared %s %s", StyleHighlight.Render(c.doc), StyleDim.Render("("+plural(removed, "node")+" removed)"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing the document")

	return cmd
}

// docsCommand lists and deletes stored documents.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			docs, err := ws.repo.ListDocuments(ctx)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No documents yet")
				printNextStep("Start one", appName+" new \"My plan\"")
				return nil
			}
			for _, doc := range docs {
				fc, err := ws.repo.LoadFlowchart(ctx, doc)
				if err != nil {
					return err
				}
				marker := "  "
				if doc == c.doc {
					marker = StyleHighlight.Render(iconInfo) + " "
				}
				fmt.Printf("%s%-20s %s %s\n", marker, doc, StyleValue.Render(fc.DisplayTitle()),
					StyleDim.Render("("+plural(len(fc.Nodes), "node")+")"))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			for _, doc := range args {
				if err := ws.repo.DeleteDocument(ctx, doc); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleHighlight.Render(doc))
			}
			return nil
		},
	})

	return cmd
}

// showCommand prints the document as tables, or as JSON with --json.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the document's nodes and edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ws, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			ws.Close()

			if asJSON {
				return io.WriteJSON(fc, cmd.OutOrStdout())
			}

			fmt.Println(StyleTitle.Render(fc.DisplayTitle()) + " " + StyleDim.Render("("+c.doc+")"))
			printCounts(fc)
			if len(fc.Nodes) == 0 {
				printNewline()
				printNextStep("Add a task", appName+" add \"First step\"")
				return nil
			}
			fmt.Println(nodeTable(fc))
			if len(fc.Edges) > 0 {
				fmt.Println(StyleDim.Render("Edges"))
				fmt.Println(edgeTable(fc))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the document in the interchange format")

	return cmd
}

// statsCommand prints completion statistics.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ws, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			ws.Close()

			s := fc.Stats()
			printKeyValue("Tasks", fmt.Sprintf("%d", s.Total))
			printKeyValue("Completed", fmt.Sprintf("%d", s.Completed))
			printKeyValue("Progress", progressBar(s, 20))
			return nil
		},
	}
}

// checkCommand reports tree and edge problems in the stored document.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report broken tree links and dangling edges",
		Long: `Report problems in the stored document: duplicate ids, self references,
dangling or one-sided parent/child links, cycles and edges to missing nodes.

Loading tolerates all of these; the command exits non-zero when any is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ws, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			ws.Close()

			issues := tree.Check(fc)
			if len(issues) == 0 {
				printSuccess("No problems in %s", StyleHighlight.Render(c.doc))
				return nil
			}
			for _, is := range issues {
				printWarning("%s", is.Message)
				printDetail("%s (%s)", is.ID, is.Kind)
			}
			return errors.New(errors.ErrCodeInvalidInput, "%s found in %q", plural(len(issues), "problem"), c.doc)
		},
	}
}
