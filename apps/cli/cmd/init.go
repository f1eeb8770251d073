package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/apidesk/packages/core/config"
	"github.com/abdul-hamid-achik/apidesk/packages/document"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize an apidesk workspace",
	Long: `Initialize an apidesk workspace in the given directory (default: current).

This creates:
  - apidesk.yaml   - Configuration file with defaults
  - request.yaml   - Example request document

Examples:
  apidesk init
  apidesk init ./api --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	exampleFile := filepath.Join(dir, "request.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := document.Default().Save(exampleFile); err != nil {
		return fmt.Errorf("failed to create example request: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\napidesk workspace initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'apidesk send -f %s' to send the example request.\n", exampleFile)

	return nil
}
