package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionCommand_DisablesDefault(t *testing.T) {
	if !rootCmd.CompletionOptions.DisableDefaultCmd {
		t.Error("expected Cobra default completion command to be disabled")
	}
}

func TestCompletionCommand_NoArgsShowsHelp(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "", "completion")
	if !strings.Contains(out, "todo completion bash --install") {
		t.Errorf("no-args output should show help with install instructions:\n%s", out)
	}
}

func TestCompletionCommand_Scripts(t *testing.T) {
	tests := map[string]string{
		"bash":       "__start_todo",
		"zsh":        "compdef",
		"fish":       "complete -c todo",
		"powershell": "Register-ArgumentCompleter",
	}
	for shell, marker := range tests {
		t.Run(shell, func(t *testing.T) {
			setupCLI(t)
			out := mustRun(t, "", "completion", shell)
			if !strings.Contains(out, marker) {
				t.Errorf("%s completion output should contain %q", shell, marker)
			}
		})
	}
}

func TestCompletionCommand_UnsupportedShell(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}

func TestCompletionCommand_Install(t *testing.T) {
	setupCLI(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	out := mustRun(t, "", "completion", "fish", "--install")
	target := filepath.Join(home, ".config", "fish", "completions", "todo.fish")
	if !strings.Contains(out, target) {
		t.Errorf("output %q does not name %s", out, target)
	}

	if _, err := runCLI(t, "", "completion", "powershell", "--install"); err == nil {
		t.Error("powershell install should be refused")
	}
}

func TestCompletionTarget(t *testing.T) {
	tests := []struct {
		shell string
		want  string
		ok    bool
	}{
		{"bash", filepath.Join("/h", ".local", "share", "bash-completion", "completions", "todo"), true},
		{"zsh", filepath.Join("/h", ".local", "share", "zsh", "site-functions", "_todo"), true},
		{"fish", filepath.Join("/h", ".config", "fish", "completions", "todo.fish"), true},
		{"powershell", "", false},
	}
	for _, tt := range tests {
		got, ok := completionTarget(tt.shell, "/h")
		if got != tt.want || ok != tt.ok {
			t.Errorf("completionTarget(%s) = %q, %v", tt.shell, got, ok)
		}
	}
}

func TestCompleteTaskRefs(t *testing.T) {
	setupCLI(t)
	mustRun(t, "", "add", "Essay", "--subject", "History")
	mustRun(t, "", "add", "Lab report", "--subject", "Chemistry")

	got, directive := completeTaskRefs(doneCmd, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}
	if len(got) != 2 || got[0] != "1700000000000\tEssay" {
		t.Errorf("completions = %v", got)
	}

	got, _ = completeTaskRefs(doneCmd, nil, "1700000000001")
	if len(got) != 1 || !strings.HasSuffix(got[0], "Lab report") {
		t.Errorf("prefix completions = %v", got)
	}

	if got, _ := completeTaskRefs(doneCmd, []string{"1"}, ""); got != nil {
		t.Errorf("a second argument should get no completions, got %v", got)
	}
}
