package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/apidesk/packages/http"
)

// JSONError is the error shape printed in JSON mode.
type JSONError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// JSONFormatter prints the response exactly as the shell receives it
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) FormatResponse(resp *http.Response) {
	f.encode(resp)
}

func (f *JSONFormatter) FormatError(err error) {
	out := JSONError{Error: err.Error()}
	if kind := http.KindOf(err); kind != 0 {
		out.Kind = kind.String()
	}
	f.encode(out)
}

func (f *JSONFormatter) encode(v any) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
