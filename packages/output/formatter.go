package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"golang.org/x/term"
)

// Formatter renders one execution outcome.
type Formatter interface {
	FormatResponse(resp *http.Response)
	FormatError(err error)
}

// New returns the formatter for format ("console" or "json"). Console output
// to a file that is not a terminal is never colored.
func New(format string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		noColor = true
	}

	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(WithJSONWriter(w)), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatSize renders a byte count for display
func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
