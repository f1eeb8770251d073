package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/apidesk/packages/bridge"
	"github.com/abdul-hamid-achik/apidesk/packages/core/config"
	"github.com/abdul-hamid-achik/apidesk/packages/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the request executor over a local HTTP bridge",
	Long: `Start the local bridge the desktop shell talks to.

POST /execute takes {"method", "url", "headers", "body", "timeout_ms"} and
replies with {"status", "time_ms", "headers", "body", "size_bytes"}.

Examples:
  apidesk serve
  apidesk serve --addr 127.0.0.1:9000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

var (
	serveAddrFlag        string
	serveLogLevelFlag    string
	serveAllowOriginFlag []string
	serveTimeoutFlag     string
	serveConfigFlag      string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", getEnvString("APIDESK_ADDR", ""), "Listen address (env: APIDESK_ADDR)")
	serveCmd.Flags().StringVar(&serveLogLevelFlag, "log-level", getEnvString("APIDESK_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: APIDESK_LOG_LEVEL)")
	serveCmd.Flags().StringSliceVar(&serveAllowOriginFlag, "allow-origin", allowedOriginsFromEnv(), "Browser origins allowed to call the bridge, comma separated; \"*\" allows any (env: APIDESK_ALLOW_ORIGIN)")
	serveCmd.Flags().StringVar(&serveTimeoutFlag, "timeout", getEnvString("APIDESK_TIMEOUT", ""), "Default deadline per request, e.g. 30s (env: APIDESK_TIMEOUT)")
	serveCmd.Flags().StringVar(&serveConfigFlag, "config", getEnvString("APIDESK_CONFIG", ""), "Path to config file (env: APIDESK_CONFIG)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	timeout, err := parseTimeout(serveTimeoutFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(serveConfigFlag, &config.Config{
		Timeout:  timeout,
		Addr:     serveAddrFlag,
		LogLevel: serveLogLevelFlag,
	})
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	exec := newExecutor(cfg, logger)
	defer exec.Close()

	server := bridge.NewServer(bridge.Config{
		Addr:           cfg.Addr,
		Version:        version,
		AllowedOrigins: serveAllowOriginFlag,
	}, exec, logger, observability.NewMetrics())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

// allowedOriginsFromEnv reads APIDESK_ALLOW_ORIGIN, falling back to the
// desktop webview origins.
func allowedOriginsFromEnv() []string {
	val := getEnvString("APIDESK_ALLOW_ORIGIN", "")
	if val == "" {
		return bridge.DefaultAllowedOrigins
	}
	var origins []string
	for _, o := range strings.Split(val, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
