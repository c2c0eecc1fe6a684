package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for flowmap. Node ids and document
names complete from the configured store.

  $ source <(flowmap completion bash)
  $ flowmap completion zsh > "${fpath[1]}/_flowmap"
  $ flowmap completion fish > ~/.config/fish/completions/flowmap.fish
  PS> flowmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// nodeArgCommands take node ids as positional arguments.
var nodeArgCommands = []string{"label", "resize", "move", "done", "undo", "parent", "annotate", "rm", "connect", "tree"}

// registerCompletions wires dynamic completion of node ids and --doc.
func (c *CLI) registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if slices.Contains(nodeArgCommands, cmd.Name()) {
			cmd.ValidArgsFunction = c.completeNodeIDs
		}
	}
	_ = root.RegisterFlagCompletionFunc("doc", c.completeDocuments)
}

// completeNodeIDs lists the ids of the current document's nodes.
func (c *CLI) completeNodeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	fc, ws, err := c.load(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ws.Close()

	var ids []string
	for _, n := range fc.Nodes {
		if strings.HasPrefix(n.ID, toComplete) && !slices.Contains(nodeRefs(args), n.ID) {
			ids = append(ids, n.ID+"\t"+oneLine(n.Label, 40))
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeDocuments lists stored document names.
func (c *CLI) completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ws, err := c.open(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer ws.Close()

	docs, err := ws.repo.ListDocuments(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, d := range docs {
		if strings.HasPrefix(d, toComplete) {
			out = append(out, d)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
