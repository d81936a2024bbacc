package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"textcleaner/internal/app"
	"textcleaner/internal/config"
	"textcleaner/internal/logger"
)

// Globals holds the root command's persistent flags.
var Globals struct {
	ConfigFile string
	LogLevel   string
	JSONLogs   bool
}

// loadConfig applies persistent flag overrides on top of file and
// environment settings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.NewViper(Globals.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Globals.LogLevel != "" {
		v.Set("log.level", Globals.LogLevel)
	}
	if cmd.Flags().Changed("json-logs") {
		v.Set("log.json", Globals.JSONLogs)
	}
	return config.LoadWithViper(v)
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	return logger.New(level, cfg.Log.JSON), nil
}

// startApplication builds the application and ties its lifetime to the
// command. Callers must defer the returned cleanup.
func startApplication(cmd *cobra.Command, opts app.Options, adjust func(*config.Config)) (*app.Application, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.NewApplication(cmd.Context(), cfg, log, opts)
	if err != nil {
		return nil, nil, err
	}

	stop := a.Listen()
	return a, func() {
		stop()
		a.Shutdown()
	}, nil
}
