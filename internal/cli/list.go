package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

var listFilterFlag string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Print the list in insertion order, followed by the counts of the whole
list. Positions shown in the first column can be used wherever a command
takes <task>.

On the rich list --filter narrows the output to completed or incomplete
tasks; positions still refer to the full list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}

		filter, err := models.ParseFilter(listFilterFlag)
		if err != nil {
			return err
		}
		if filter != models.FilterAll && !sess.Capabilities().Filtering {
			return fmt.Errorf("--filter is only available on the rich list")
		}
		sess.SetFilter(filter)

		renderTaskList(cmd.OutOrStdout(), sess)
		return nil
	},
}

// listStyles renders task lines. Colors degrade to plain text when out is
// not a terminal.
type listStyles struct {
	done     lipgloss.Style
	open     lipgloss.Style
	dim      lipgloss.Style
	priority map[models.Priority]lipgloss.Style
}

func newListStyles(out io.Writer) listStyles {
	r := lipgloss.NewRenderer(out)
	return listStyles{
		done: r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241")),
		open: r.NewStyle(),
		dim:  r.NewStyle().Foreground(lipgloss.Color("244")),
		priority: map[models.Priority]lipgloss.Style{
			models.PriorityHigh:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			models.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("214")),
			models.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("70")),
		},
	}
}

func renderTaskList(out io.Writer, sess *core.Session) {
	all := sess.Store().Tasks()
	visible := sess.Visible()
	if len(visible) == 0 {
		if len(all) == 0 {
			fmt.Fprintln(out, "No tasks yet.")
		} else {
			fmt.Fprintf(out, "No %s tasks.\n", sess.Filter())
			fmt.Fprintf(out, "\n%s\n", formatSummary(sess.Store().Summary()))
		}
		return
	}

	position := make(map[string]int, len(all))
	for i, t := range all {
		position[t.ID] = i + 1
	}

	styles := newListStyles(out)
	rich := sess.Capabilities().RichFields
	for _, t := range visible {
		fmt.Fprintln(out, formatTaskLine(styles, position[t.ID], t, rich))
	}
	fmt.Fprintf(out, "\n%s\n", styles.dim.Render(formatSummary(sess.Store().Summary())))
}

// formatSummary renders the counts of the whole list, regardless of filter.
func formatSummary(sum core.Summary) string {
	line := fmt.Sprintf("Total %d, completed %d, open %d", sum.Total, sum.Completed, sum.Open)
	if sum.ByPriority == nil {
		return line
	}
	counts := make([]string, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		counts = append(counts, fmt.Sprintf("%s %d", p, sum.ByPriority[p]))
	}
	return line + " | " + strings.Join(counts, ", ")
}

func formatTaskLine(s listStyles, pos int, t models.Task, rich bool) string {
	mark := "[ ]"
	title := s.open.Render(t.Title)
	if t.Completed {
		mark = "[x]"
		title = s.done.Render(t.Title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %s %s", pos, mark, title)
	if rich {
		var details []string
		if t.Subject != "" {
			details = append(details, t.Subject)
		}
		if t.Deadline != "" {
			details = append(details, "due "+t.Deadline)
		}
		if len(details) > 0 {
			b.WriteString(" " + s.dim.Render("("+strings.Join(details, ", ")+")"))
		}
		if t.Priority != "" {
			style, ok := s.priority[t.Priority]
			if !ok {
				style = s.dim
			}
			b.WriteString(" " + style.Render(string(t.Priority)))
		}
	}
	b.WriteString(" " + s.dim.Render(t.ID))
	return b.String()
}

func init() {
	listCmd.Flags().StringVarP(&listFilterFlag, "filter", "f", string(models.FilterAll), "show all, completed or incomplete tasks (rich list)")
	_ = listCmd.RegisterFlagCompletionFunc("filter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(models.FilterAll), string(models.FilterCompleted), string(models.FilterIncomplete)}, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(listCmd)
}
