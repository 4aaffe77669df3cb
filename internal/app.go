// Package internal provides the App struct that wires lumina's components
// together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/drapaimern/lumina/internal/ai"
	"github.com/drapaimern/lumina/internal/cli"
	"github.com/drapaimern/lumina/internal/core"
	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/internal/storage"
	"github.com/drapaimern/lumina/pkg/models"
)

// App holds all service dependencies for lumina.
type App struct {
	BasePath string

	Config *models.Config

	KV   storage.KVStore
	Repo storage.TaskRepository

	Assist ai.Assistant

	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory
// where tasks, preferences, config, and the event log live.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	cfg, err := core.NewConfigManager(basePath).Load()
	if err != nil {
		// Fall back to defaults on an unreadable config file.
		cfg = &models.Config{Model: core.DefaultModel}
	}
	app.Config = cfg

	app.KV, err = storage.NewFileKVStore(basePath)
	if err != nil {
		return nil, err
	}

	// Non-fatal: run without an event log if it can't be created.
	eventLogPath := filepath.Join(basePath, ".lumina_events.jsonl")
	if log, logErr := observability.NewJSONLEventLog(eventLogPath); logErr == nil {
		app.EventLog = log
		app.MetricsCalc = observability.NewMetricsCalculator(log)
	}

	app.Repo = storage.NewTaskRepository(app.KV, app.EventLog)
	app.Assist = ai.NewClient(cfg.APIKey, cfg.Model, app.EventLog)

	// Expose services to the CLI layer.
	cli.BasePath = basePath
	cli.Cfg = app.Config
	cli.KV = app.KV
	cli.Repo = app.Repo
	cli.Assist = app.Assist
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// ResolveBasePath returns the data directory: $LUMINA_HOME if set,
// otherwise ~/.lumina, falling back to the current directory when no home
// directory is available.
func ResolveBasePath() string {
	if home := os.Getenv("LUMINA_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".lumina")
}
