package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/internal/tui"
)

var (
	calendarMonth  int
	calendarYear   int
	calendarLocale string
	calendarPick   int
)

// now is the clock used by commands; tests pin it.
var now = time.Now

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month calendar",
	Long: `Print the month grid used to pick deadlines, Sunday first.

With --pick the chosen day is printed the way it is stored as a deadline,
e.g. "20 April 2025".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		locale := Locale
		if calendarLocale != "" {
			if !core.IsKnownLocale(calendarLocale) {
				return fmt.Errorf("unknown locale %q: known locales are %v", calendarLocale, core.KnownLocales())
			}
			locale = calendarLocale
		}

		today := now()
		picker := core.NewDatePicker(today, locale)
		if calendarYear != 0 {
			picker.Year = calendarYear
		}
		if calendarMonth != 0 {
			if calendarMonth < 1 || calendarMonth > 12 {
				return fmt.Errorf("--month must be between 1 and 12, got %d", calendarMonth)
			}
			picker.Month = time.Month(calendarMonth)
		}

		if cmd.Flags().Changed("pick") {
			formatted, ok := picker.Select(calendarPick)
			if !ok {
				return fmt.Errorf("%s has no day %d", picker.Title(), calendarPick)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatted)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCalendar(picker, today, lipgloss.NewRenderer(cmd.OutOrStdout())))
		return nil
	},
}

func init() {
	calendarCmd.Flags().IntVar(&calendarMonth, "month", 0, "month to show, 1-12 (default current)")
	calendarCmd.Flags().IntVar(&calendarYear, "year", 0, "year to show (default current)")
	calendarCmd.Flags().StringVar(&calendarLocale, "locale", "", "month name locale: en or id (default from .todoconfig)")
	calendarCmd.Flags().IntVar(&calendarPick, "pick", 0, "print the deadline text for this day instead of the grid")
	rootCmd.AddCommand(calendarCmd)
}
