package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pocket-todo/internal/core"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// resolveVariant returns the variant chosen by --variant, falling back to
// the configured default.
func resolveVariant() (models.Variant, error) {
	if variantFlag == "" {
		return DefaultVariant, nil
	}
	return models.ParseVariant(variantFlag)
}

// openStore returns the loaded task store for the selected variant. A
// snapshot that cannot be read is reported on the logger and the list
// starts empty.
func openStore() (core.TaskStore, error) {
	variant, err := resolveVariant()
	if err != nil {
		return nil, err
	}
	store, ok := Stores[variant]
	if !ok || store == nil {
		return nil, fmt.Errorf("task store for variant %q not initialized", variant)
	}
	if err := store.Load(); err != nil && Logger != nil {
		Logger.Warn("starting with an empty list", "variant", variant, "err", err)
	}
	return store, nil
}

// openSession wraps the selected store in a fresh session.
func openSession() (*core.Session, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return core.NewSession(store, Locale, nil), nil
}

// resolveTaskRef maps a task reference to a task ID. An exact ID wins;
// otherwise an all-digit reference is read as a 1-based position in the
// stored order. Unknown references resolve to "" with ok=false.
func resolveTaskRef(store core.TaskStore, ref string) (string, bool) {
	ref = strings.TrimSpace(strings.TrimPrefix(ref, "#"))
	if ref == "" {
		return "", false
	}
	if task, ok := store.Get(ref); ok {
		return task.ID, true
	}
	if !isAllDigits(ref) {
		return "", false
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return "", false
	}
	tasks := store.Tasks()
	if n < 1 || n > len(tasks) {
		return "", false
	}
	return tasks[n-1].ID, true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// settle drives a requested action to completion. A pending action is put
// to the user as a y/N question unless --yes was given.
func settle(cmd *cobra.Command, sess *core.Session, outcome core.Outcome, err error) (core.Outcome, error) {
	if err != nil || outcome != core.OutcomePending {
		return outcome, err
	}
	pending, _ := sess.Pending()
	if assumeYes || askYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), pending.Prompt()) {
		return sess.Confirm()
	}
	return sess.Cancel(), nil
}

// askYesNo prints question and reads a y/N answer from in. Anything other
// than y or yes counts as no.
func askYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// reportOutcome prints a one-line result for a settled action. Actions on
// unknown tasks print nothing.
func reportOutcome(out io.Writer, outcome core.Outcome, committed string) {
	switch outcome {
	case core.OutcomeCommitted:
		fmt.Fprintln(out, committed)
	case core.OutcomeCancelled:
		fmt.Fprintln(out, "Cancelled.")
	}
}

// completeVariants offers the list variants for --variant.
func completeVariants(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(models.VariantSimple) + "\ttitle and completion only",
		string(models.VariantRich) + "\tsubject, deadline, priority and confirmations",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeTaskRefs lists task IDs with their titles as descriptions.
func completeTaskRefs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || Stores == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := openStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, task := range store.Tasks() {
		if toComplete == "" || strings.HasPrefix(task.ID, toComplete) {
			ids = append(ids, task.ID+"\t"+task.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
