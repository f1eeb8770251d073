package cmd

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/apidesk/packages/core/config"
	"github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/rs/zerolog"
)

// loadConfig reads the config file (or searches the working directory) and
// applies command-line overrides on top.
func loadConfig(path string, override *config.Config) (*config.Config, error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}

	cfg := fileCfg.Merge(override)
	if err := cfg.Validate(); err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	return cfg, nil
}

// parseTimeout converts a duration flag into config milliseconds
func parseTimeout(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, withCode(ExitUsageError, fmt.Errorf("invalid timeout %q: %w", value, err))
	}
	if d < 0 {
		return 0, withCode(ExitUsageError, fmt.Errorf("timeout must not be negative: %s", value))
	}
	return int(d.Milliseconds()), nil
}

func newExecutor(cfg *config.Config, logger zerolog.Logger) *http.Executor {
	return http.NewExecutor(
		http.WithTimeout(cfg.TimeoutDuration()),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.GetMaxRedirects()),
		http.WithLogger(logger),
	)
}
