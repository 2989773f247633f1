package cli

import (
	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/observability"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath       string
	Stores         map[models.Variant]core.TaskStore
	DefaultVariant = models.VariantRich
	Locale         = core.LocaleEnglish
	Logger         *log.Logger
)

// Observability service instances. Both are nil when the activity log is
// disabled.
var (
	EventLog  observability.EventLog
	StatsCalc observability.StatsCalculator
)

// Reconfigure rebuilds the services above with a different data directory
// or log level. Empty arguments keep the configured value. Set by app.go;
// nil means the overrides are ignored.
var Reconfigure func(dataDir, logLevel string) error
