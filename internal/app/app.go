package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/registrable"
	"github.com/vk/registrable/catalog"
	"github.com/vk/registrable/internal/ctxlog"
	"github.com/vk/registrable/internal/registries"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	set     *registries.Set
	catalog *catalog.Catalog
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry set.
// Command output goes to outW, log output to errW.
func NewApp(outW, errW io.Writer, appConfig *Config, modules ...registries.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load the module catalog, if one is configured. Without it, only
	// registered names resolve; dotted paths fail at lookup time.
	var loader registrable.Loader
	var cat *catalog.Catalog
	if appConfig.CatalogPath != "" {
		var err error
		cat, err = catalog.Load(ctx, appConfig.CatalogPath)
		if err != nil {
			// A failure to load the catalog is a fatal startup error.
			panic(fmt.Errorf("failed to load module catalog: %w", err))
		}
		loader = cat
	}

	// Create the registry set and let every bundled module register itself.
	set := registries.New(logger, loader)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(set)
	}
	logger.Debug("All bundled modules registered.", "count", len(modules))

	return &App{
		outW:    outW,
		logger:  logger,
		set:     set,
		catalog: cat,
	}
}

// Registries returns the application's registry set. This is primarily for
// testing.
func (a *App) Registries() *registries.Set {
	return a.set
}
