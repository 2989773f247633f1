package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for todo",
	Long: `Set up tab-completion for todo commands, flags and task IDs.

Supported shells: bash, zsh, fish, powershell

Install into your user completion directory:

  todo completion bash --install
  todo completion zsh --install
  todo completion fish --install

Or print the script for manual setup:

  eval "$(todo completion bash)"
  todo completion fish | source`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"install completions into your user completion directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	shell := args[0]
	gen, ok := completionGenerators[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}

	if !completionInstall {
		return gen(cmd.OutOrStdout())
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("detecting home directory: %w", err)
	}
	target, ok := completionTarget(shell, home)
	if !ok {
		return fmt.Errorf("automatic install is not supported for %s; run 'todo completion %s' and add the output to your profile", shell, shell)
	}
	if err := writeCompletionFile(target, gen); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s completions installed to %s\n", shell, target)
	if shell == "zsh" {
		fmt.Fprintf(cmd.OutOrStdout(), "Make sure %s is in your fpath, then run: autoload -Uz compinit && compinit\n", filepath.Dir(target))
	}
	return nil
}

var completionGenerators = map[string]func(io.Writer) error{
	"bash":       func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
	"zsh":        func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
}

// completionTarget returns the user-local file a shell loads completions
// from. PowerShell has none.
func completionTarget(shell, home string) (string, bool) {
	switch shell {
	case "bash":
		return filepath.Join(home, ".local", "share", "bash-completion", "completions", "todo"), true
	case "zsh":
		return filepath.Join(home, ".local", "share", "zsh", "site-functions", "_todo"), true
	case "fish":
		return filepath.Join(home, ".config", "fish", "completions", "todo.fish"), true
	}
	return "", false
}

// writeCompletionFile creates target and its directory and writes the
// script into it, reporting close errors.
func writeCompletionFile(target string, gen func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating completion file %s: %w", target, err)
	}

	writeErr := gen(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return nil
}
