package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// Flag values shared by add and edit.
var (
	titleFlag    string
	subjectFlag  string
	deadlineFlag string
	priorityFlag string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Long: `Add a task to the end of the list. Words after "add" form the title.

On the rich list the title must be at least three characters long and a
subject is required. --deadline accepts free text or a YYYY-MM-DD date,
which is written the way the calendar writes it ("20 April 2025").

Examples:
  todo add Buy milk --variant simple
  todo add Essay --subject History --deadline 2025-04-20 --priority high`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}

		sess.SetTitle(strings.Join(args, " "))
		if err := applyRichFlags(cmd, sess); err != nil {
			return err
		}

		if _, err := sess.Submit(); err != nil {
			return err
		}

		tasks := sess.Store().Tasks()
		task := tasks[len(tasks)-1]
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:     "done <task>",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task between completed and open",
	Long: `Flip the completion state of a task. <task> is a task ID or a
1-based position in the list.

The rich list asks for confirmation first; pass --yes to skip the question.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		id, ok := resolveTaskRef(sess.Store(), args[0])
		if !ok {
			return nil
		}

		outcome, err := sess.RequestToggle(id)
		outcome, err = settle(cmd, sess, outcome, err)
		if err != nil {
			return err
		}
		task, _ := sess.Store().Get(id)
		state := "open"
		if task.Completed {
			state = "completed"
		}
		reportOutcome(cmd.OutOrStdout(), outcome, fmt.Sprintf("Task %s is now %s.", id, state))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <task>",
	Short: "Change a task's fields",
	Long: `Edit the title, and on the rich list the subject, deadline or priority,
of an existing task. Only the flags given are changed. The same rules as
"add" apply, and the rich list asks before saving.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		id, ok := resolveTaskRef(sess.Store(), args[0])
		if !ok || !sess.StartEdit(id) {
			return nil
		}

		if cmd.Flags().Changed("title") {
			sess.SetTitle(titleFlag)
		}
		if err := applyRichFlags(cmd, sess); err != nil {
			return err
		}

		outcome, err := sess.Submit()
		outcome, err = settle(cmd, sess, outcome, err)
		if err != nil {
			return err
		}
		reportOutcome(cmd.OutOrStdout(), outcome, fmt.Sprintf("Task %s updated.", id))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <task>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long: `Remove a task from the list. The rich list asks for confirmation
first; pass --yes to skip the question.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTaskRefs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		id, ok := resolveTaskRef(sess.Store(), args[0])
		if !ok {
			return nil
		}

		outcome, err := sess.RequestDelete(id)
		outcome, err = settle(cmd, sess, outcome, err)
		if err != nil {
			return err
		}
		reportOutcome(cmd.OutOrStdout(), outcome, fmt.Sprintf("Task %s deleted.", id))
		return nil
	},
}

// applyRichFlags copies --subject, --deadline and --priority into the
// session buffer. The simple list ignores them with a warning.
func applyRichFlags(cmd *cobra.Command, sess *core.Session) error {
	flags := cmd.Flags()
	changed := flags.Changed("subject") || flags.Changed("deadline") || flags.Changed("priority")
	if !sess.Capabilities().RichFields {
		if changed && Logger != nil {
			Logger.Warn("the simple list only keeps titles; ignoring --subject, --deadline and --priority")
		}
		return nil
	}

	if flags.Changed("subject") {
		sess.SetSubject(subjectFlag)
	}
	if flags.Changed("deadline") {
		sess.SetDeadline(normalizeDeadline(deadlineFlag))
	}
	if flags.Changed("priority") {
		p, err := models.ParsePriority(priorityFlag)
		if err != nil {
			return err
		}
		sess.SetPriority(p)
	}
	return nil
}

// normalizeDeadline rewrites a YYYY-MM-DD date in calendar format. Other
// text is kept as typed.
func normalizeDeadline(value string) string {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return core.FormatDeadline(t, Locale)
	}
	return value
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&subjectFlag, "subject", "s", "", "subject or category (rich list)")
		c.Flags().StringVarP(&deadlineFlag, "deadline", "d", "", "deadline, free text or YYYY-MM-DD (rich list)")
		c.Flags().StringVarP(&priorityFlag, "priority", "p", "", "priority: low, medium or high (rich list)")
		_ = c.RegisterFlagCompletionFunc("priority", completePriorities)
	}
	editCmd.Flags().StringVarP(&titleFlag, "title", "t", "", "new title")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
}

func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		out = append(out, string(p))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
