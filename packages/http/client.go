package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout of zero leaves deadlines to the caller's context and the
	// transport defaults.
	DefaultTimeout = 0
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
)

// Executor validates, dispatches and normalizes single HTTP requests. It is safe
// for concurrent use; the only state shared between calls is the underlying
// *http.Client, which carries no request-specific data.
type Executor struct {
	httpClient     *http.Client
	transport      http.RoundTripper
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	logger         zerolog.Logger
}

type Option func(*Executor)

func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.transport == nil {
		e.transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !e.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= e.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	e.httpClient = &http.Client{
		Transport:     e.transport,
		CheckRedirect: redirectPolicy,
	}

	return e
}

// WithTimeout sets a default deadline for every call. Request.Timeout wins
// when both are set.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

func WithFollowRedirects(follow bool) Option {
	return func(e *Executor) {
		e.followRedirect = follow
	}
}

// WithMaxRedirects caps redirect follow-ups. Values below 1 keep
// DefaultMaxRedirects; use WithFollowRedirects(false) to stop following.
func WithMaxRedirects(max int) Option {
	return func(e *Executor) {
		if max > 0 {
			e.maxRedirects = max
		}
	}
}

// WithTransport replaces the round tripper, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Executor) {
		e.transport = rt
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// Execute performs exactly one exchange for req. Errors are always *Error:
// KindValidation for an unsupported method, KindTransport for everything that
// happens on the wire. No partial Response is returned on failure.
func (e *Executor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		req = &Request{}
	}

	method, err := ResolveMethod(req.Method)
	if err != nil {
		e.logger.Debug().Str("method", req.Method).Msg("rejected unsupported method")
		return nil, err
	}

	timeout := e.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		body = strings.NewReader(*req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, e.fail(method, req.URL, err)
	}

	for k, v := range req.Headers {
		// net/http ignores a Host entry in Header; the field carries it.
		if strings.EqualFold(k, "Host") {
			httpReq.Host = v
			continue
		}
		httpReq.Header.Set(k, v)
	}

	e.logger.Debug().Str("method", method).Str("url", req.URL).Int("headers", len(req.Headers)).Msg("dispatching request")

	start := time.Now()
	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, e.fail(method, req.URL, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, e.fail(method, req.URL, err)
	}
	text, err := decodeBody(raw, httpResp.Header.Get("Content-Type"))
	if err != nil {
		return nil, e.fail(method, req.URL, err)
	}

	return &Response{
		Status:    httpResp.StatusCode,
		TimeMs:    elapsed.Milliseconds(),
		Headers:   materializeHeaders(httpResp.Header),
		Body:      text,
		SizeBytes: len(text),
	}, nil
}

// Close releases idle connections held by the shared client.
func (e *Executor) Close() {
	e.httpClient.CloseIdleConnections()
}

func (e *Executor) fail(method, url string, err error) *Error {
	e.logger.Warn().Str("method", method).Str("url", url).Err(err).Msg("http request failed")
	return transportError(method, url, err)
}

// decodeBody returns raw as UTF-8 text. Bodies that are not already UTF-8 are
// decoded with the charset declared in contentType; without a usable
// declaration they fail with ErrBodyNotText.
func decodeBody(raw []byte, contentType string) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return "", ErrBodyNotText
	}
	enc, name := charset.Lookup(params["charset"])
	if enc == nil || name == "utf-8" {
		return "", ErrBodyNotText
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil || !utf8.Valid(decoded) {
		return "", ErrBodyNotText
	}
	return string(decoded), nil
}

// materializeHeaders flattens h to one value per name. The last value wins and
// a value that is not valid UTF-8 becomes "".
func materializeHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		if !utf8.ValidString(value) {
			value = ""
		}
		headers[name] = value
	}
	return headers
}
