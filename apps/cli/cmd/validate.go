package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/apidesk/packages/document"
	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate request documents without sending them",
	Long: `Validate request documents against the document schema and check
that their method is one apidesk can send.

Examples:
  apidesk validate request.yaml
  apidesk validate users/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		if err := validateFile(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return &exitError{code: ExitValidationError, err: fmt.Errorf("validation failed"), reported: true}
	}

	return nil
}

func validateFile(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	_, err = http.ResolveMethod(doc.Method)
	return err
}
