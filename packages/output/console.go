package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	apihttp "github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if f.noColor {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (f *ConsoleFormatter) statusColor(resp *apihttp.Response) func(a ...interface{}) string {
	switch {
	case resp.IsServerError():
		return f.paint(color.FgRed, color.Bold)
	case resp.IsClientError():
		return f.paint(color.FgYellow, color.Bold)
	case resp.IsRedirect():
		return f.paint(color.FgCyan, color.Bold)
	case resp.IsSuccess():
		return f.paint(color.FgGreen, color.Bold)
	default:
		return f.paint(color.Bold)
	}
}

// displayBody indents JSON bodies. Anything that fails to indent is shown as is.
func displayBody(resp *apihttp.Response) string {
	if !resp.IsJSON() {
		return resp.Body
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(resp.Body), "", "  "); err != nil {
		return resp.Body
	}
	return buf.String()
}

func (f *ConsoleFormatter) FormatResponse(resp *apihttp.Response) {
	status := f.statusColor(resp)
	cyan := f.paint(color.FgCyan)
	faint := f.paint(color.Faint)

	line := fmt.Sprintf("%d", resp.Status)
	if text := http.StatusText(resp.Status); text != "" {
		line += " " + text
	}
	fmt.Fprintf(f.writer, "%s  %s  %s\n", status(line), cyan(fmt.Sprintf("%dms", resp.TimeMs)), faint(formatSize(resp.SizeBytes)))

	if f.verbose && len(resp.Headers) > 0 {
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			names = append(names, name)
		}
		sort.Strings(names)

		bold := f.paint(color.Bold)
		for _, name := range names {
			fmt.Fprintf(f.writer, "%s: %s\n", bold(name), resp.Headers[name])
		}
	}

	if resp.Body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", displayBody(resp))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := f.paint(color.FgRed)
	label := "Error:"
	if kind := apihttp.KindOf(err); kind != 0 {
		label = fmt.Sprintf("Error (%s):", kind)
	}
	fmt.Fprintf(f.writer, "%s %v\n", red(label), err)
}
