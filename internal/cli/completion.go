package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// shellCompletions maps a shell to its completion generator. The bool asks
// for descriptions next to each candidate.
var shellCompletions = map[string]func(root *cobra.Command, w io.Writer, desc bool) error{
	"bash": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenBashCompletionV2(w, desc)
	},
	"zsh": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenFishCompletion(w, desc)
	},
	"powershell": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

// completeFormats completes the comma-separated list of render --format,
// offering formats not yet in the list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := strings.Split(prefix, ",")

	var out []string
	for _, f := range pipeline.FormatNames() {
		if !slices.Contains(chosen, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func shellNames() []string {
	names := make([]string, 0, len(shellCompletions))
	for name := range shellCompletions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// completionCommand prints a completion script for the named shell to c.Out.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool
	shells := shellNames()

	cmd := &cobra.Command{
		Use:   "completion <" + strings.Join(shells, "|") + ">",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for stackplot, covering subcommands, flags and
the output formats accepted by render --format.

  source <(stackplot completion bash)
  stackplot completion zsh > "${fpath[1]}/_stackplot"
  stackplot completion fish > ~/.config/fish/completions/stackplot.fish
  stackplot completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shellCompletions[args[0]](cmd.Root(), c.Out, !noDesc)
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit candidate descriptions")
	return cmd
}
