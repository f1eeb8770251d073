package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/apidesk/packages/core/config"
	"github.com/abdul-hamid-achik/apidesk/packages/core/env"
	"github.com/abdul-hamid-achik/apidesk/packages/document"
	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/abdul-hamid-achik/apidesk/packages/observability"
	"github.com/abdul-hamid-achik/apidesk/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/net/http/httpguts"
)

var sendCmd = &cobra.Command{
	Use:   "send [url]",
	Short: "Send one HTTP request and print the response",
	Long: `Send a single HTTP request and print status, time, size and body.

Examples:
  apidesk send https://jsonplaceholder.typicode.com/todos/1
  apidesk send -X post https://api.example.com/users -H "Content-Type: application/json" -d '{"name":"ada"}'
  apidesk send -f request.yaml -v
  apidesk send -f request.yaml --query user.id
  apidesk send -f request.yaml --watch
  apidesk send -f request.yaml --env-file .env --var id=42`,
	Args: cobra.MaximumNArgs(1),
	RunE: sendCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

type sendOptions struct {
	method       string
	headers      []string
	data         string
	file         string
	envFile      string
	vars         []string
	timeout      string
	output       string
	query        string
	noColor      bool
	noFollow     bool
	maxRedirects int
	verbose      int // 0=off, 1=-v headers, 2=-vv debug logs
	watch        bool
	config       string

	methodSet bool
	dataSet   bool
	warn      env.WarnFunc
}

var sendOpts sendOptions

func init() {
	f := sendCmd.Flags()

	// Request flags
	f.StringVarP(&sendOpts.method, "method", "X", http.MethodGet, "HTTP method: GET, POST, PUT, DELETE, PATCH")
	f.StringArrayVarP(&sendOpts.headers, "header", "H", nil, "Request header as \"Key: Value\" (repeatable)")
	f.StringVarP(&sendOpts.data, "data", "d", "", "Request body, sent verbatim")
	f.StringVarP(&sendOpts.file, "file", "f", "", "Request document (JSON or YAML)")
	f.StringVar(&sendOpts.envFile, "env-file", getEnvString("APIDESK_ENV_FILE", ""), "Load {{name}} variables from a .env file (env: APIDESK_ENV_FILE)")
	f.StringArrayVar(&sendOpts.vars, "var", nil, "Set a {{name}} variable as NAME=value (repeatable)")

	// Network flags
	f.StringVar(&sendOpts.timeout, "timeout", getEnvString("APIDESK_TIMEOUT", ""), "Deadline for the whole exchange, e.g. 5s (env: APIDESK_TIMEOUT)")
	f.BoolVar(&sendOpts.noFollow, "no-follow", getEnvBool("APIDESK_NO_FOLLOW", false), "Do not follow redirects (env: APIDESK_NO_FOLLOW)")
	f.IntVar(&sendOpts.maxRedirects, "max-redirects", getEnvInt("APIDESK_MAX_REDIRECTS", 0), "Maximum redirects to follow, 0 keeps the configured value (env: APIDESK_MAX_REDIRECTS)")

	// Output flags
	f.StringVarP(&sendOpts.output, "output", "o", getEnvString("APIDESK_OUTPUT", ""), "Output format: console, json (env: APIDESK_OUTPUT)")
	f.StringVar(&sendOpts.query, "query", "", "Print only the value at this JSON path of the body")
	f.BoolVar(&sendOpts.noColor, "no-color", getEnvBool("APIDESK_NO_COLOR", false), "Disable colored output (env: APIDESK_NO_COLOR)")
	f.CountVarP(&sendOpts.verbose, "verbose", "v", "Show response headers (-vv adds debug logs)")

	f.BoolVarP(&sendOpts.watch, "watch", "w", false, "Re-send whenever the request document changes")
	f.StringVar(&sendOpts.config, "config", getEnvString("APIDESK_CONFIG", ""), "Path to config file (env: APIDESK_CONFIG)")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	opts := sendOpts
	opts.methodSet = cmd.Flags().Changed("method")
	opts.dataSet = cmd.Flags().Changed("data")
	opts.warn = func(format string, args ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: "+format+"\n", args...)
	}

	if opts.file == "" && len(args) == 0 {
		return withCode(ExitUsageError, errors.New("a URL or --file is required"))
	}
	if opts.watch && opts.file == "" {
		return withCode(ExitUsageError, errors.New("--watch requires --file"))
	}

	override, err := opts.configOverride()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.config, override)
	if err != nil {
		return err
	}

	opts.envFile = cfg.EnvFile

	formatter, err := output.New(cfg.Output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return withCode(ExitUsageError, err)
	}

	logLevel := "off"
	if opts.verbose > 1 {
		logLevel = "debug"
	}
	exec := newExecutor(cfg, observability.NewLogger(logLevel, cmd.ErrOrStderr()))
	defer exec.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !opts.watch {
		return sendOnce(ctx, cmd, exec, formatter, opts, args)
	}
	return watchAndSend(ctx, cmd, exec, formatter, opts, args)
}

func (o sendOptions) configOverride() (*config.Config, error) {
	timeout, err := parseTimeout(o.timeout)
	if err != nil {
		return nil, err
	}

	override := &config.Config{
		Timeout:      timeout,
		MaxRedirects: o.maxRedirects,
		Output:       o.output,
		EnvFile:      o.envFile,
	}
	if o.noFollow {
		override.FollowRedirects = config.BoolPtr(false)
	}
	if o.noColor {
		override.NoColor = config.BoolPtr(true)
	}
	if o.verbose > 0 {
		override.Verbose = config.BoolPtr(true)
	}
	return override, nil
}

// resolver collects variables from --env-file and --var; --var wins.
func (o sendOptions) resolver() (*env.Resolver, error) {
	var fileVars map[string]string
	if o.envFile != "" {
		vars, err := env.LoadDotEnv(o.envFile)
		if err != nil {
			return nil, withCode(ExitConfigError, err)
		}
		fileVars = vars
	}

	flagVars, err := env.ParseVars(o.vars)
	if err != nil {
		return nil, withCode(ExitUsageError, err)
	}

	return env.NewResolver(env.MergeVariables(fileVars, flagVars), env.WithWarnFunc(o.warn)), nil
}

// buildRequest assembles the request from the document (if any) and flags.
// Flags given explicitly win over the document. Placeholders are resolved in
// the document only.
func buildRequest(opts sendOptions, args []string) (*http.Request, error) {
	var req *http.Request
	if opts.file != "" {
		doc, err := document.Load(opts.file)
		if err != nil {
			return nil, withCode(ExitValidationError, err)
		}
		resolver, err := opts.resolver()
		if err != nil {
			return nil, err
		}
		req = doc.Resolve(resolver).Request()
		if opts.methodSet {
			req.Method = opts.method
		}
	} else {
		req = http.NewRequest(opts.method, "")
	}

	if len(args) > 0 {
		req.URL = args[0]
	}

	for _, h := range opts.headers {
		key, value, err := parseHeader(h)
		if err != nil {
			return nil, withCode(ExitUsageError, err)
		}
		req.SetHeader(key, value)
	}

	if opts.dataSet {
		req.SetBody(opts.data)
	}

	return req, nil
}

// parseHeader splits "Key: Value". The value may be empty.
func parseHeader(raw string) (string, string, error) {
	key, value, found := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("invalid header %q (expected \"Key: Value\")", raw)
	}
	value = strings.TrimSpace(value)
	if !httpguts.ValidHeaderFieldName(key) {
		return "", "", fmt.Errorf("invalid header name %q", key)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return "", "", fmt.Errorf("invalid value for header %s", key)
	}
	return key, value, nil
}

func sendOnce(ctx context.Context, cmd *cobra.Command, exec *http.Executor, formatter output.Formatter, opts sendOptions, args []string) error {
	req, err := buildRequest(opts, args)
	if err != nil {
		return err
	}

	resp, err := exec.Execute(ctx, req)
	if err != nil {
		formatter.FormatError(err)
		return &exitError{code: exitCodeFor(err), err: err, reported: true}
	}

	if opts.query != "" {
		value, err := output.Query(resp, opts.query)
		if err != nil {
			return withCode(ExitFailure, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	formatter.FormatResponse(resp)
	return nil
}

func watchAndSend(ctx context.Context, cmd *cobra.Command, exec *http.Executor, formatter output.Formatter, opts sendOptions, args []string) error {
	run := func() {
		err := sendOnce(ctx, cmd, exec, formatter, opts, args)
		var ee *exitError
		if err != nil && (!errors.As(err, &ee) || !ee.reported) {
			formatter.FormatError(err)
		}
	}

	target, err := filepath.Abs(opts.file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.file, err)
	}

	run()
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", opts.file)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target && event.Has(fsnotify.Write|fsnotify.Create) {
				debounce = time.After(WatchDebounceDelay)
			}

		case <-debounce:
			debounce = nil
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-sending...\n\n", opts.file)
			run()
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", opts.file)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
