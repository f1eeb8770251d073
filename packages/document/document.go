package document

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/apidesk/packages/core/env"
	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Pair is a header or query parameter row. Rows without an explicit enabled
// flag are enabled.
type Pair struct {
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

func (p Pair) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

type Document struct {
	Method      string `json:"method" yaml:"method"`
	URL         string `json:"url" yaml:"url"`
	Headers     []Pair `json:"headers,omitempty" yaml:"headers,omitempty"`
	QueryParams []Pair `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`
	Body        string `json:"body,omitempty" yaml:"body,omitempty"`
	Timeout     int    `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request document %s: %s", e.Path, strings.Join(e.Problems, "; "))
}

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Default is the request a fresh workspace starts with.
func Default() *Document {
	return &Document{
		Method: http.MethodGet,
		URL:    "https://jsonplaceholder.typicode.com/todos/1",
		Headers: []Pair{
			{Key: "Content-Type", Value: "application/json"},
		},
		Body: "{\n  \"key\": \"value\"\n}",
	}
}

// Load reads and validates a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read request document: %w", err)
	}
	return parse(data, path)
}

// Parse decodes and validates a JSON or YAML document.
func Parse(data []byte) (*Document, error) {
	return parse(data, "<input>")
}

func parse(data []byte, name string) (*Document, error) {
	// YAML is a superset of JSON, so one decoder covers both formats.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse request document %s: %w", name, err)
	}
	if raw == nil {
		return nil, &ValidationError{Path: name, Problems: []string{"document is empty"}}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot validate request document %s: %w", name, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, &ValidationError{Path: name, Problems: problems}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize request document %s: %w", name, err)
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode request document %s: %w", name, err)
	}
	return &doc, nil
}

// Request builds the executor request. Disabled rows and rows with a blank key
// are skipped; an empty body means no body.
func (d *Document) Request() *http.Request {
	req := http.NewRequest(d.Method, d.BuildURL())

	for _, h := range d.Headers {
		if h.IsEnabled() && strings.TrimSpace(h.Key) != "" {
			req.SetHeader(h.Key, h.Value)
		}
	}

	if d.Body != "" {
		req.SetBody(d.Body)
	}

	if d.Timeout > 0 {
		req.SetTimeout(time.Duration(d.Timeout) * time.Millisecond)
	}

	return req
}

// Resolve returns a copy with placeholders in the method, URL, rows and body
// substituted. The receiver is not modified.
func (d *Document) Resolve(r *env.Resolver) *Document {
	out := *d
	out.Method = r.Resolve(d.Method)
	out.URL = r.Resolve(d.URL)
	out.Body = r.Resolve(d.Body)
	out.Headers = resolvePairs(r, d.Headers)
	out.QueryParams = resolvePairs(r, d.QueryParams)
	return &out
}

func resolvePairs(r *env.Resolver, pairs []Pair) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{Key: r.Resolve(p.Key), Value: r.Resolve(p.Value), Enabled: p.Enabled}
	}
	return out
}

// BuildURL merges enabled query parameters into the URL. A URL that does not
// parse is returned unchanged so the executor reports it.
func (d *Document) BuildURL() string {
	var params []Pair
	for _, p := range d.QueryParams {
		if p.IsEnabled() && strings.TrimSpace(p.Key) != "" {
			params = append(params, p)
		}
	}
	if len(params) == 0 {
		return d.URL
	}

	u, err := url.Parse(d.URL)
	if err != nil {
		return d.URL
	}

	q := u.Query()
	for _, p := range params {
		q.Add(p.Key, p.Value)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Save writes the document as YAML.
func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
