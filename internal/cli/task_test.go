package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

func TestAdd_Simple(t *testing.T) {
	env := setupCLI(t)

	out := mustRun(t, "", "add", "Buy", "milk", "--variant", "simple")
	if out != "Added task 1700000000000: Buy milk\n" {
		t.Errorf("unexpected output %q", out)
	}

	tasks := env.stores[models.VariantSimple].Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("simple store = %+v", tasks)
	}
	if len(env.stores[models.VariantRich].Tasks()) != 0 {
		t.Error("the rich list must be untouched")
	}
	value, found, _ := env.kv[models.VariantSimple].Get("tasks")
	if !found || value != `[{"id":"1700000000000","title":"Buy milk","completed":false}]` {
		t.Errorf("persisted snapshot = %q", value)
	}
}

func TestAdd_SimpleIgnoresRichFlags(t *testing.T) {
	env := setupCLI(t)

	mustRun(t, "", "add", "Buy milk", "--variant", "simple", "--subject", "Groceries", "--priority", "high")

	task := env.stores[models.VariantSimple].Tasks()[0]
	if task.Subject != "" || task.Priority != "" {
		t.Errorf("simple task kept rich fields: %+v", task)
	}
}

func TestAdd_Rich(t *testing.T) {
	env := setupCLI(t)

	mustRun(t, "", "add", "Essay", "--subject", "History", "--deadline", "2025-04-20", "--priority", "high")

	task := env.stores[models.VariantRich].Tasks()[0]
	want := models.Task{
		ID: "1700000000000", Title: "Essay", Subject: "History",
		Deadline: "20 April 2025", Priority: models.PriorityHigh,
	}
	if task != want {
		t.Errorf("task = %+v, want %+v", task, want)
	}
}

func TestAdd_RichDefaults(t *testing.T) {
	env := setupCLI(t)

	mustRun(t, "", "add", "Essay", "-s", "History", "-d", "next Friday")

	task := env.stores[models.VariantRich].Tasks()[0]
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Deadline != "next Friday" {
		t.Errorf("free-text deadline rewritten to %q", task.Deadline)
	}
}

func TestAdd_RichValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing subject", []string{"add", "Essay"}, "please fill in the title and subject"},
		{"short title", []string{"add", "ab", "--subject", "x"}, "at least 3 characters"},
		{"bad priority", []string{"add", "Essay", "--subject", "x", "--priority", "urgent"}, "invalid priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLI(t)
			_, err := runCLI(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
			if len(env.stores[models.VariantRich].Tasks()) != 0 {
				t.Error("rejected add must not create a task")
			}
		})
	}
}

func TestDone_SimpleIsImmediate(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Buy milk", "--variant", "simple")

	out := mustRun(t, "", "done", "1", "--variant", "simple")
	if out != "Task 1700000000000 is now completed.\n" {
		t.Errorf("unexpected output %q", out)
	}
	if !env.stores[models.VariantSimple].Tasks()[0].Completed {
		t.Error("task not completed")
	}

	mustRun(t, "", "toggle", "1700000000000", "--variant", "simple")
	if env.stores[models.VariantSimple].Tasks()[0].Completed {
		t.Error("second toggle should reopen the task")
	}
}

func TestDone_RichAsksFirst(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")

	out := mustRun(t, "n\n", "done", "1")
	if !strings.Contains(out, "Are you sure you want to complete this task? [y/N]") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("unexpected output %q", out)
	}
	if env.stores[models.VariantRich].Tasks()[0].Completed {
		t.Fatal("declined toggle changed the task")
	}

	out = mustRun(t, "y\n", "done", "1")
	if !strings.Contains(out, "is now completed") {
		t.Errorf("unexpected output %q", out)
	}

	out = mustRun(t, "yes\n", "done", "1")
	if !strings.Contains(out, "Mark this task as not completed?") || !strings.Contains(out, "is now open") {
		t.Errorf("unexpected reopen output %q", out)
	}
}

func TestDone_NoAnswerCancels(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")

	mustRun(t, "", "done", "1")
	if env.stores[models.VariantRich].Tasks()[0].Completed {
		t.Error("EOF on stdin must count as no")
	}
}

func TestRm_RichWithYes(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")
	mustRun(t, "", "add", "Lab report", "--subject", "Chemistry")

	out := mustRun(t, "", "rm", "1", "--yes")
	if out != "Task 1700000000000 deleted.\n" {
		t.Errorf("unexpected output %q", out)
	}
	tasks := env.stores[models.VariantRich].Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Lab report" {
		t.Errorf("remaining tasks = %+v", tasks)
	}
}

func TestRm_UnknownTaskIsSilent(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")

	for _, ref := range []string{"9", "0", "no-such-id", "#"} {
		out, err := runCLI(t, "y\n", "rm", ref)
		if err != nil || out != "" {
			t.Errorf("rm %q = %q, %v; want silent no-op", ref, out, err)
		}
	}
	if len(env.stores[models.VariantRich].Tasks()) != 1 {
		t.Error("unknown references must not delete anything")
	}
}

func TestEdit_Rich(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History", "--priority", "low")

	out := mustRun(t, "y\n", "edit", "1", "--title", "Essay draft", "--priority", "high")
	if !strings.Contains(out, "Are you sure you want to save the changes?") || !strings.Contains(out, "updated") {
		t.Errorf("unexpected output %q", out)
	}

	task := env.stores[models.VariantRich].Tasks()[0]
	if task.Title != "Essay draft" || task.Priority != models.PriorityHigh || task.Subject != "History" {
		t.Errorf("task = %+v", task)
	}
}

func TestEdit_InvalidNeverPrompts(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")

	out, err := runCLI(t, "y\n", "edit", "1", "--subject", " ")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if strings.Contains(out, "[y/N]") {
		t.Error("invalid edits should fail before the confirmation prompt")
	}
	if env.stores[models.VariantRich].Tasks()[0].Subject != "History" {
		t.Error("task changed")
	}
}

func TestEdit_Declined(t *testing.T) {
	env := setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")

	out := mustRun(t, "n\n", "edit", "1", "--title", "Other")
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("unexpected output %q", out)
	}
	if env.stores[models.VariantRich].Tasks()[0].Title != "Essay" {
		t.Error("declined edit changed the task")
	}
}

func TestRootCmd_InvalidVariant(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, "", "list", "--variant", "fancy"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestResolveTaskRef(t *testing.T) {
	env := setupCLI(t)
	store := env.stores[models.VariantRich]
	mustRun(t, "", "add", "Essay", "--subject", "History")
	mustRun(t, "", "add", "Lab report", "--subject", "Chemistry")

	tests := []struct {
		ref    string
		want   string
		wantOK bool
	}{
		{"1700000000000", "1700000000000", true},
		{"2", "1700000000001", true},
		{"#1", "1700000000000", true},
		{" 2 ", "1700000000001", true},
		{"3", "", false},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := resolveTaskRef(store, tt.ref)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("resolveTaskRef(%q) = %q, %v; want %q, %v", tt.ref, got, ok, tt.want, tt.wantOK)
		}
	}
}
