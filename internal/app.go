// Package internal provides the App struct that wires all components of
// pocket-todo together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/pocket-todo/internal/cli"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/logging"
	"github.com/valter-silva-au/pocket-todo/internal/observability"
	"github.com/valter-silva-au/pocket-todo/internal/storage"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// App holds all service dependencies.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	Logger *log.Logger

	// Storage layer: one isolated key-value namespace per list variant.
	Storage map[models.Variant]storage.KeyValueStore

	// Core services
	Stores map[models.Variant]core.TaskStore

	// Observability
	EventLog  observability.EventLog
	StatsCalc observability.StatsCalculator
}

// NewApp creates and wires all components. basePath is the root directory
// holding .todoconfig and the data directory.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	if err := app.wire(); err != nil {
		return nil, err
	}
	cli.Reconfigure = app.Reconfigure
	return app, nil
}

// Reconfigure applies command-line overrides of the data directory and log
// level and rebuilds every service that depends on them.
func (a *App) Reconfigure(dataDir, logLevel string) error {
	if dataDir != "" {
		a.Config.StorageDir = dataDir
	}
	if logLevel != "" {
		a.Config.Log.Level = logLevel
	}
	if err := a.ConfigMgr.ValidateConfig(a.Config); err != nil {
		return err
	}
	if err := a.Close(); err != nil {
		return fmt.Errorf("closing activity log: %w", err)
	}
	a.EventLog = nil
	a.StatsCalc = nil
	return a.wire()
}

// wire builds the logger, activity log and task stores from a.Config and
// publishes them to the CLI layer.
func (a *App) wire() error {
	cfg := a.Config
	var err error

	// --- Logging ---
	logOpts := logging.DefaultOptions()
	logOpts.Level = logging.ParseLevel(cfg.Log.Level)
	logOpts.Formatter = logging.ParseFormatter(cfg.Log.Format)
	a.Logger = logging.New(logOpts)

	// --- Observability ---
	var evtAdapter core.EventLogger
	if cfg.EventLog {
		eventLogPath := filepath.Join(a.dataDir(), "events.jsonl")
		a.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: run without the activity log.
			a.Logger.Warn("activity log disabled", "err", err)
			a.EventLog = nil
		}
	}
	if a.EventLog != nil {
		a.StatsCalc = observability.NewStatsCalculator(a.EventLog)
		evtAdapter = &eventLogAdapter{log: a.EventLog}
	}

	// --- Storage and stores ---
	a.Storage = make(map[models.Variant]storage.KeyValueStore, 2)
	a.Stores = make(map[models.Variant]core.TaskStore, 2)
	ids := core.NewTaskIDGenerator(nil)
	for _, variant := range []models.Variant{models.VariantSimple, models.VariantRich} {
		kv := storage.NewFileKeyValueStore(filepath.Join(a.dataDir(), string(variant)))
		a.Storage[variant] = kv

		caps := core.CapabilitiesFor(variant)
		if caps.RichFields {
			caps.MinTitleLength = cfg.MinTitleLength
		}
		opts := []core.StoreOption{
			core.WithLogger(a.Logger.WithPrefix("todo/" + string(variant))),
			core.WithIDGenerator(ids),
		}
		if evtAdapter != nil {
			opts = append(opts, core.WithEventLogger(evtAdapter))
		}
		a.Stores[variant] = core.NewTaskStore(kv, caps, opts...)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = a.BasePath
	cli.Stores = a.Stores
	cli.DefaultVariant = cfg.Variant
	cli.Locale = cfg.Locale
	cli.Logger = a.Logger
	cli.EventLog = a.EventLog
	cli.StatsCalc = a.StatsCalc

	return nil
}

func (a *App) dataDir() string {
	if filepath.IsAbs(a.Config.StorageDir) {
		return a.Config.StorageDir
	}
	return filepath.Join(a.BasePath, a.Config.StorageDir)
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the pocket-todo home directory. TODO_HOME wins,
// then the nearest ancestor of the working directory holding .todoconfig,
// then ~/.todo.
func ResolveBasePath() string {
	if home := os.Getenv("TODO_HOME"); home != "" {
		return home
	}
	if dir, err := os.Getwd(); err == nil {
		for {
			if hasConfigFile(dir) {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".todo")
	}
	return "."
}

func hasConfigFile(dir string) bool {
	for _, name := range []string{".todoconfig", ".todoconfig.yaml", ".todoconfig.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	level := "INFO"
	if eventType == core.EventLoadFailed || eventType == core.EventSaveFailed {
		level = "ERROR"
	}
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
