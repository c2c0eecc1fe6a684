// Package cli implements the flowmap command-line interface.
package cli

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/buildinfo"
	"github.com/matzehuels/flowmap/pkg/config"
	"github.com/matzehuels/flowmap/pkg/dimension"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowmap"

	// defaultDocument is the document edited when --doc is not given.
	defaultDocument = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config
	doc        string // --doc
	store      string // --store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: logging.New(w, level),
		doc:    defaultDocument,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowmap keeps task flowcharts in a key-value store",
		Long:         `Flowmap is a CLI tool for building task flowcharts: add and connect boxes, track completion, and import, export or render whole documents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVarP(&c.doc, "doc", "d", defaultDocument, "document name")
	flags.StringVar(&c.store, "store", "", "storage backend: "+strings.Join(storage.Backends, ", "))

	root.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Documents:"},
		&cobra.Group{ID: groupNodes, Title: "Nodes and edges:"},
		&cobra.Group{ID: groupViews, Title: "Views and files:"},
	)

	for _, cmd := range []*cobra.Command{
		c.newCommand(), c.titleCommand(), c.clearCommand(), c.docsCommand(), c.editCommand(),
	} {
		cmd.GroupID = groupDocuments
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.addCommand(), c.labelCommand(), c.resizeCommand(), c.moveCommand(),
		c.completionStateCommand(true), c.completionStateCommand(false),
		c.parentCommand(), c.annotateCommand(), c.rmCommand(),
		c.connectCommand(), c.disconnectCommand(),
	} {
		cmd.GroupID = groupNodes
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.showCommand(), c.statsCommand(), c.treeCommand(), c.checkCommand(),
		c.exportCommand(), c.importCommand(), c.renderCommand(),
	} {
		cmd.GroupID = groupViews
		root.AddCommand(cmd)
	}
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

const (
	groupDocuments = "documents"
	groupNodes     = "nodes"
	groupViews     = "views"
)

// =============================================================================
// Workspace
// =============================================================================

// workspace is the configuration and open store behind one command.
type workspace struct {
	cfg   config.Config
	store storage.Store
	repo  *storage.Repository
	sizes *dimension.Registry
}

// loadConfig reads the config file and applies the --store override.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.store != "" {
		cfg.Storage.Backend = c.store
		if err := cfg.Storage.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// open loads the configuration and opens the configured store. Callers must
// close the workspace.
func (c *CLI) open(ctx context.Context) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "location", storage.Describe(cfg.Storage))
	return &workspace{
		cfg:   cfg,
		store: store,
		repo:  storage.NewRepository(storage.NewPersister(store), nil),
		sizes: cfg.Sizes(),
	}, nil
}

func (w *workspace) Close() error { return w.store.Close() }

// editor starts an editor over fc using the configured dimension engines.
func (w *workspace) editor(fc *flowchart.Flowchart) *flowchart.Editor {
	return flowchart.NewEditor(fc, flowchart.WithSizes(w.sizes))
}

// load reads the current document.
func (c *CLI) load(ctx context.Context) (*flowchart.Flowchart, *workspace, error) {
	ws, err := c.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	fc, err := ws.repo.LoadFlowchart(ctx, c.doc)
	if err != nil {
		ws.Close()
		return nil, nil, err
	}
	return fc, ws, nil
}

// update loads the current document, applies fn and saves the result.
// Nothing is saved when fn fails.
func (c *CLI) update(ctx context.Context, fn func(*flowchart.Editor) error) (*flowchart.Flowchart, error) {
	fc, ws, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	ed := ws.editor(fc)
	if err := fn(ed); err != nil {
		return nil, err
	}
	out := ed.Flowchart()
	c.save(ctx, ws, out)
	return out, nil
}

// save writes fc to the current document, warning when a part failed.
func (c *CLI) save(ctx context.Context, ws *workspace, fc *flowchart.Flowchart) bool {
	saved, err := ws.repo.SaveFlowchart(ctx, c.doc, fc)
	if err != nil || !saved {
		printWarning("document %q was not fully saved", c.doc)
		return false
	}
	return true
}

// =============================================================================
// Argument Helpers
// =============================================================================

var bareNumber = regexp.MustCompile(`^\d+$`)

// nodeRef accepts "node-3" or the shorthand "3".
func nodeRef(arg string) string {
	if bareNumber.MatchString(arg) {
		return flowchart.NodeIDPrefix + arg
	}
	return arg
}

func nodeRefs(args []string) []string {
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = nodeRef(a)
	}
	return ids
}
