// @title ssbwatch API
// @version 1.0
// @description Channel status, head-to-head predictions and rewards for the fan site.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/osse101/ssbwatch/internal/bootstrap"
	"github.com/osse101/ssbwatch/internal/config"
	"github.com/osse101/ssbwatch/internal/handler"
	"github.com/osse101/ssbwatch/internal/logger"
)

const programName = "ssbwatch"

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), logger.AttrKeyComponent, programName)
}

// setup loads the config and installs the logger. The returned func closes
// the session log file, if any.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	handler.Version = cfg.Version

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.IsProduction() {
		warnings, err := config.ValidateEnvWithWarnings()
		if err != nil {
			_ = closeFile(logFile)
			return nil, nil, err
		}
		for _, w := range warnings {
			slog.Warn(w)
		}
	}

	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Warn("failed to set GOMAXPROCS", "error", err)
	}

	return cfg, func() { _ = closeFile(logFile) }, nil
}

func closeFile(f *os.File) error {
	if f == nil {
		return nil
	}
	return f.Close()
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Livestream fan site backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(statusCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
