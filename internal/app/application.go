// Package app assembles the cleaning stack from configuration.
package app

import (
	"context"
	"fmt"
	"runtime"

	"textcleaner/internal/algorithms"
	"textcleaner/internal/config"
	"textcleaner/internal/invoker"
	"textcleaner/internal/locator"
	"textcleaner/internal/logger"
	"textcleaner/internal/pipeline"
	"textcleaner/internal/services"
	"textcleaner/internal/shutdown"
	"textcleaner/internal/workspace"
)

const (
	AppName    = "textcleaner"
	AppVersion = "1.0.0"
)

type Options struct {
	// Verify decodes every input before it is handed to the tool.
	Verify bool
}

type Application struct {
	Config     *config.Config
	Logger     logger.Logger
	Algorithms *algorithms.Manager
	Workspace  *workspace.Manager
	Locator    *locator.Locator
	Cleaner    *services.CleaningService
	Pipeline   *pipeline.Coordinator

	shutdown *shutdown.Manager
}

func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Application, error) {
	if log == nil {
		log = logger.Nop()
	}

	log.Info("Application", "starting application", map[string]interface{}{
		"version":        AppVersion,
		"go_version":     runtime.Version(),
		"tool":           cfg.Tool.Name,
		"workspace":      cfg.Workspace.Dir,
		"max_concurrent": cfg.Workers.MaxConcurrent,
	})

	algs := algorithms.NewManager()
	if cfg.Algorithm.Default != "" {
		name, err := algs.Parse(cfg.Algorithm.Default)
		if err != nil {
			return nil, err
		}
		if err := algs.SetCurrentAlgorithm(name); err != nil {
			return nil, err
		}
	}

	ws, err := workspace.New(cfg.Workspace.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare workspace: %w", err)
	}

	loc := locator.New(cfg.Tool.Name, cfg.Tool.Dir)
	inv := invoker.New(invoker.Options{
		AlgorithmFlag: cfg.Tool.AlgorithmFlag,
		Timeout:       cfg.Tool.Timeout,
	}, log)

	cleaner := services.NewCleaningService(ws, loc, inv, services.Options{
		MaxConcurrent: cfg.Workers.MaxConcurrent,
	}, log)

	coordinator := pipeline.NewCoordinator(
		cleaner,
		pipeline.NewLoader(log, opts.Verify),
		pipeline.NewSaver(log),
		cfg.Workers.MaxConcurrent,
		log,
	)

	application := &Application{
		Config:     cfg,
		Logger:     log,
		Algorithms: algs,
		Workspace:  ws,
		Locator:    loc,
		Cleaner:    cleaner,
		Pipeline:   coordinator,
		shutdown:   shutdown.NewManager(ctx, log),
	}
	application.shutdown.Register("cleaner", cleaner)

	if cfg.Workspace.SweepOnStart {
		application.sweep()
	}

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// Context is canceled on shutdown.
func (a *Application) Context() context.Context {
	return a.shutdown.Context()
}

// Listen shuts the application down on SIGINT or SIGTERM.
func (a *Application) Listen() (stop func()) {
	return a.shutdown.Listen()
}

// ResolveAlgorithm parses value, falling back to the configured default when
// value is empty.
func (a *Application) ResolveAlgorithm(value string) (algorithms.Name, error) {
	name, err := a.Algorithms.Parse(value)
	if err != nil {
		return "", err
	}
	if name == "" {
		return a.Algorithms.GetCurrentAlgorithm(), nil
	}
	return name, nil
}
