package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/io"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/render"
)

// exportCommand writes the document in the interchange format.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the document as JSON",
		Long:  `Export the document as JSON, to stdout or to the file given by --output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ws, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			ws.Close()

			if output == "" || output == "-" {
				return io.WriteJSON(fc, cmd.OutOrStdout())
			}
			if err := io.ExportJSON(fc, output); err != nil {
				return err
			}
			printSuccess("Exported %s", StyleHighlight.Render(c.doc))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// importCommand replaces the document with a JSON file.
func (c *CLI) importCommand() *cobra.Command {
	var keepTitle bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the document with a JSON file",
		Long: `Replace the document with the nodes and edges of a JSON file ("-" reads
stdin). The file is validated first; the stored document is untouched when it
is rejected. Sizes outside a kind's bounds are clamped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], keepTitle)
		},
	}

	cmd.Flags().BoolVar(&keepTitle, "keep-title", false, "keep the current title instead of the file's")

	return cmd
}

func (c *CLI) runImport(cmd *cobra.Command, path string, keepTitle bool) error {
	ctx := cmd.Context()
	ws, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	var imported *flowchart.Flowchart
	if path == "-" {
		imported, err = io.ReadJSON(cmd.InOrStdin(), io.WithSizes(ws.sizes))
	} else {
		imported, err = io.ImportJSON(path, io.WithSizes(ws.sizes))
	}
	if err != nil {
		return err
	}

	current, err := ws.repo.LoadFlowchart(ctx, c.doc)
	if err != nil {
		return err
	}
	ed := ws.editor(current)
	title := current.DisplayTitle()
	ed.Replace(imported)
	if keepTitle {
		ed.SetTitle(title)
	}
	fc := ed.Flowchart()
	if !c.save(ctx, ws, fc) {
		return errors.New(errors.ErrCodeStorage, "could not save %q", c.doc)
	}

	logging.FromContext(ctx).Debug("imported document", "doc", c.doc, "path", path, "next_id", fc.NextID)
	printSuccess("Imported %s into %s", StyleValue.Render(path), StyleHighlight.Render(c.doc))
	printCounts(fc)
	return nil
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file, or base path for several formats
	formats     []string // dot, svg, png
	selected    []string // node ids to highlight
	positions   bool     // pin nodes at their canvas positions
	noTreeLinks bool     // omit dashed parent/child links
}

// renderCommand draws the document with graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the document to SVG, PNG or DOT",
		Long: `Render the document with graphviz. Several formats render concurrently; with
more than one format --output is a base path and each file gets the format's
extension. The default output is <doc>.<format> in the current directory.`,
		Example: `  flowmap render
  flowmap render -f svg,png -o plan
  flowmap render --positions --select 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{string(render.FormatSVG)}, "output format(s): svg, png, dot")
	cmd.Flags().StringSliceVar(&opts.selected, "select", nil, "node ids to highlight")
	cmd.Flags().BoolVar(&opts.positions, "positions", false, "pin nodes at their canvas positions")
	cmd.Flags().BoolVar(&opts.noTreeLinks, "no-tree-links", false, "omit dashed parent/child links")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	formats := make([]render.Format, 0, len(opts.formats))
	for _, s := range opts.formats {
		f, err := render.ParseFormat(s)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		formats = []render.Format{render.FormatSVG}
	}

	fc, ws, err := c.load(ctx)
	if err != nil {
		return err
	}
	ws.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s...", plural(len(fc.Nodes), "node")))
	spin.Start()
	prog := logging.NewProgress(c.Logger)
	out, err := render.Render(ctx, fc, render.Options{
		Theme:       ws.cfg.Theme,
		Selected:    nodeRefs(opts.selected),
		Positions:   opts.positions,
		NoTreeLinks: opts.noTreeLinks,
	}, formats...)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()
	prog.Done(fmt.Sprintf("Rendered %s", plural(len(fc.Nodes), "node")))

	paths := outputPaths(c.doc, opts.output, formats)
	for _, f := range formats {
		if err := os.WriteFile(paths[f], out[f], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", paths[f])
		}
	}

	printSuccess("Rendered %s", StyleHighlight.Render(c.doc))
	for _, f := range formats {
		printFile(paths[f])
	}
	return nil
}

// outputPaths chooses a file per format. A single format uses output as
// given when it has an extension; otherwise output (or doc) is a base path.
func outputPaths(doc, output string, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = doc
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + string(f)
	}
	return paths
}
