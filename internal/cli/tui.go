package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive list screen",
	Long: `Open a full-screen view of the selected list.

Keys: a add, e edit, space toggle, d delete, f filter (rich list), r reload,
q quit. In the form, tab moves between fields, ctrl+o opens the deadline
calendar and enter saves.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		return tui.Run(sess)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
