package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/apidesk/packages/import/curl"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	importFile   string
	importOutDir string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import requests from other tools",
}

var importCurlCmd = &cobra.Command{
	Use:   "curl [command]",
	Short: "Convert curl commands into request documents",
	Long: `Convert one or more curl commands into apidesk request documents.

The command can be passed as an argument or read from a file with one
command per line (backslash continuations are joined). Documents are
printed as YAML unless --out-dir is given, in which case each one is
written to <out-dir>/<name>.yaml.

Examples:
  apidesk import curl "curl -X POST https://api.example.com/users -d '{}'"
  apidesk import curl --file commands.sh --out-dir ./requests`,
	Args: cobra.MaximumNArgs(1),
	RunE: importCurlCommand,
}

func init() {
	importCurlCmd.Flags().StringVar(&importFile, "file", "", "File containing curl commands")
	importCurlCmd.Flags().StringVar(&importOutDir, "out-dir", "", "Directory to write request documents to")
	importCmd.AddCommand(importCurlCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	var parsed []*curl.ParsedCurl

	switch {
	case importFile != "" && len(args) > 0:
		return withCode(ExitUsageError, fmt.Errorf("pass either a command or --file, not both"))
	case importFile != "":
		p, err := curl.ParseFile(importFile)
		if err != nil {
			return withCode(ExitValidationError, err)
		}
		parsed = p
	case len(args) == 1:
		p, err := curl.Parse(args[0])
		if err != nil {
			return withCode(ExitValidationError, err)
		}
		parsed = append(parsed, p)
	default:
		return withCode(ExitUsageError, fmt.Errorf("a curl command or --file is required"))
	}

	if importOutDir != "" {
		if err := os.MkdirAll(importOutDir, 0755); err != nil {
			return err
		}
		seen := make(map[string]int)
		for _, p := range parsed {
			name := p.Name
			if n := seen[name]; n > 0 {
				name = fmt.Sprintf("%s_%d", name, n+1)
			}
			seen[p.Name]++

			path := filepath.Join(importOutDir, name+".yaml")
			if err := p.Document().Save(path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
		}
		return nil
	}

	docs := make([]string, 0, len(parsed))
	for _, p := range parsed {
		data, err := yaml.Marshal(p.Document())
		if err != nil {
			return err
		}
		docs = append(docs, string(data))
	}
	fmt.Fprint(cmd.OutOrStdout(), strings.Join(docs, "---\n"))
	return nil
}
