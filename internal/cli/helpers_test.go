package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/logging"
	"github.com/valter-silva-au/pocket-todo/internal/storage"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// testEnv holds the stores a test's commands run against.
type testEnv struct {
	kv     map[models.Variant]storage.KeyValueStore
	stores map[models.Variant]core.TaskStore
}

// setupCLI points the package-level services at in-memory stores with a
// pinned ID clock and restores everything when the test ends.
func setupCLI(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		kv:     make(map[models.Variant]storage.KeyValueStore),
		stores: make(map[models.Variant]core.TaskStore),
	}
	ids := core.NewTaskIDGenerator(func() time.Time { return time.UnixMilli(1700000000000) })
	for _, v := range []models.Variant{models.VariantSimple, models.VariantRich} {
		env.kv[v] = storage.NewMemoryKeyValueStore()
		env.stores[v] = core.NewTaskStore(env.kv[v], core.CapabilitiesFor(v), core.WithIDGenerator(ids))
	}

	prevStores, prevVariant, prevLocale := Stores, DefaultVariant, Locale
	prevLogger, prevEvents, prevStats, prevReconfigure := Logger, EventLog, StatsCalc, Reconfigure
	prevNow := now

	Stores = env.stores
	DefaultVariant = models.VariantRich
	Locale = core.LocaleEnglish
	Logger = logging.Discard()
	EventLog = nil
	StatsCalc = nil
	Reconfigure = nil
	now = func() time.Time { return time.Date(2025, time.April, 14, 9, 0, 0, 0, time.UTC) }

	resetFlags(rootCmd)
	t.Cleanup(func() {
		Stores, DefaultVariant, Locale = prevStores, prevVariant, prevLocale
		Logger, EventLog, StatsCalc, Reconfigure = prevLogger, prevEvents, prevStats, prevReconfigure
		now = prevNow
		resetFlags(rootCmd)
	})
	return env
}

// resetFlags returns every flag of cmd and its children to its default so
// values from one Execute do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with args, feeding stdin, and returns
// what the command printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("todo %s: %v", strings.Join(args, " "), err)
	}
	return out
}
