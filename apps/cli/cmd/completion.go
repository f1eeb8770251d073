package cmd

import (
	"sync"

	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Print a completion script for apidesk. Besides commands and flags it
completes --method, --output and --log-level values.

Examples:
  source <(apidesk completion bash)
  apidesk completion zsh > "${fpath[1]}/_apidesk"
  apidesk completion fish > ~/.config/fish/completions/apidesk.fish
  apidesk completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		default:
			return root.GenPowerShellCompletionWithDesc(out)
		}
	},
}

var registerCompletionsOnce sync.Once

// registerCompletions attaches value completions to flags. It runs after every
// command's init so the flags exist.
func registerCompletions() {
	registerCompletionsOnce.Do(func() {
		fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
				return values, cobra.ShellCompDirectiveNoFileComp
			}
		}

		_ = sendCmd.RegisterFlagCompletionFunc("method", fixed(http.SupportedMethods()...))
		_ = sendCmd.RegisterFlagCompletionFunc("output", fixed("console", "json"))
		_ = sendCmd.RegisterFlagCompletionFunc("file", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
		})
		_ = serveCmd.RegisterFlagCompletionFunc("log-level", fixed("debug", "info", "warn", "error", "off"))
	})
}
