package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/storage"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

var (
	exportFormatFlag string
	exportOutputFlag string
	importFormatFlag string
	importAppendFlag bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the list as JSON, YAML or TOML",
	Long: `Write every task of the selected list to stdout, or to --output.

JSON output has the same shape as the saved snapshot. YAML and TOML wrap
the list in a "tasks" key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := storage.ParseExportFormat(exportFormatFlag)
		if err != nil {
			return err
		}
		if exportOutputFlag != "" && !cmd.Flags().Changed("format") {
			format = storage.FormatFromPath(exportOutputFlag)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		data, err := storage.EncodeTasks(store.Tasks(), format)
		if err != nil {
			return err
		}

		if exportOutputFlag == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOutputFlag, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", exportOutputFlag, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(store.Tasks()), exportOutputFlag)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Load tasks from a JSON, YAML or TOML file",
	Long: `Replace the selected list with the tasks in <file>, or append them with
--append. Use "-" to read from stdin. The format follows the file
extension unless --format is given.

Replacing a non-empty list asks for confirmation unless --yes is given.
On the simple list subject, deadline and priority are dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		format := storage.FormatFromPath(args[0])
		if cmd.Flags().Changed("format") {
			if format, err = storage.ParseExportFormat(importFormatFlag); err != nil {
				return err
			}
		}
		incoming, err := storage.DecodeTasks(data, format)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		current := store.Tasks()

		next := incoming
		if importAppendFlag {
			next = mergeTasks(current, incoming)
		} else if len(current) > 0 && !assumeYes {
			question := fmt.Sprintf("Replace %d existing tasks with %d imported ones?", len(current), len(incoming))
			if !askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := store.Replace(next); err != nil {
			return fmt.Errorf("importing tasks: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks; the list now has %d.\n", len(incoming), len(store.Tasks()))
		return nil
	},
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// mergeTasks appends the incoming tasks whose IDs are not already present.
func mergeTasks(current, incoming []models.Task) []models.Task {
	seen := make(map[string]bool, len(current))
	merged := make([]models.Task, 0, len(current)+len(incoming))
	for _, t := range current {
		seen[t.ID] = true
		merged = append(merged, t)
	}
	for _, t := range incoming {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		merged = append(merged, t)
	}
	return merged
}

func init() {
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", string(storage.FormatJSON), "output format: json, yaml or toml")
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "write to this file instead of stdout")
	importCmd.Flags().StringVar(&importFormatFlag, "format", "", "input format: json, yaml or toml (default from extension)")
	importCmd.Flags().BoolVar(&importAppendFlag, "append", false, "append tasks with new IDs instead of replacing the list")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
