package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/observability"
)

var (
	statsJSON  bool
	statsSince string

	historyType  string
	historyTask  string
	historyLimit int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recent list activity",
	Long: `Display counts derived from the activity log: tasks created, completed,
reopened, edited and deleted, plus imports and storage failures.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if StatsCalc == nil {
			return fmt.Errorf("stats unavailable: the activity log is disabled")
		}

		since, err := observability.ParseSince(statsSince, now().UTC())
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
		stats, err := StatsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting stats as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Activity (since %s)\n\n", since.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  %-20s %d\n", "Events recorded:", stats.EventCount)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks created:", stats.TasksCreated)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks completed:", stats.TasksCompleted)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks reopened:", stats.TasksReopened)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks edited:", stats.TasksUpdated)
		fmt.Fprintf(out, "  %-20s %d\n", "Tasks deleted:", stats.TasksDeleted)
		fmt.Fprintf(out, "  %-20s %d\n", "Imports:", stats.Imports)
		if stats.LoadFailures > 0 || stats.SaveFailures > 0 {
			fmt.Fprintf(out, "  %-20s %d\n", "Load failures:", stats.LoadFailures)
			fmt.Fprintf(out, "  %-20s %d\n", "Save failures:", stats.SaveFailures)
		}

		if len(stats.CreatedBy) > 0 {
			fmt.Fprintln(out, "\n  Created per list:")
			variants := make([]string, 0, len(stats.CreatedBy))
			for v := range stats.CreatedBy {
				variants = append(variants, v)
			}
			sort.Strings(variants)
			for _, v := range variants {
				fmt.Fprintf(out, "    %-18s %d\n", v+":", stats.CreatedBy[v])
			}
		}

		if stats.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-20s %s\n", "Oldest event:", stats.OldestEvent.Format(time.RFC3339))
		}
		if stats.NewestEvent != nil {
			fmt.Fprintf(out, "  %-20s %s\n", "Newest event:", stats.NewestEvent.Format(time.RFC3339))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the activity log",
	Long:  `Print recorded list activity, newest last.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("history unavailable: the activity log is disabled")
		}

		filter := observability.EventFilter{Type: historyType, TaskID: historyTask, Limit: historyLimit}
		if cmd.Flags().Changed("since") {
			since, err := observability.ParseSince(statsSince, now().UTC())
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading activity log: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No activity recorded.")
			return nil
		}
		for _, e := range events {
			line := fmt.Sprintf("%s  %-18s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Type)
			if id := e.TaskID(); id != "" {
				line += "  " + id
			}
			if title, ok := e.Data["title"].(string); ok && title != "" {
				line += "  " + title
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "time window (e.g. 7d, 24h, 90m)")
	historyCmd.Flags().StringVar(&statsSince, "since", "7d", "only show events in this window (e.g. 7d, 24h)")
	historyCmd.Flags().StringVar(&historyType, "type", "", "only show events of this type, e.g. task.deleted")
	historyCmd.Flags().StringVar(&historyTask, "task", "", "only show events for this task ID")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most this many recent events (0 for all)")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
}
