package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/storage"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// Persistent flag values.
var (
	variantFlag  string
	assumeYes    bool
	dataDirFlag  string
	logLevelFlag string
	ephemeral    bool
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "pocket-todo - a local to-do list",
	Long: `pocket-todo keeps a to-do list on this machine.

Two list flavours are available through --variant:

  simple  title and completion only, every change applies immediately
  rich    subject, deadline and priority, with confirmation before
          deleting, saving edits or completing a task

Every change is saved right away. Run "todo tui" for the interactive screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if variantFlag != "" {
			if _, err := resolveVariant(); err != nil {
				return err
			}
		}
		if (dataDirFlag != "" || logLevelFlag != "") && Reconfigure != nil {
			if err := Reconfigure(dataDirFlag, logLevelFlag); err != nil {
				return err
			}
		}
		if ephemeral {
			useMemoryStores()
		}
		return nil
	},
}

// useMemoryStores swaps every list for an empty in-memory one, so nothing
// is read from or written to the data directory.
func useMemoryStores() {
	ids := core.NewTaskIDGenerator(nil)
	memory := make(map[models.Variant]core.TaskStore, len(Stores))
	for variant, store := range Stores {
		opts := []core.StoreOption{core.WithIDGenerator(ids)}
		if Logger != nil {
			opts = append(opts, core.WithLogger(Logger.WithPrefix("todo/"+string(variant))))
		}
		memory[variant] = core.NewTaskStore(storage.NewMemoryKeyValueStore(), store.Capabilities(), opts...)
	}
	Stores = memory
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "todo %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&variantFlag, "variant", "", "list variant: simple or rich (default from .todoconfig)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory holding the saved lists (overrides storage.dir)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the lists in memory for this run only")
	_ = rootCmd.RegisterFlagCompletionFunc("variant", completeVariants)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
