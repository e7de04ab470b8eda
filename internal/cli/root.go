package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gitpolice/internal/git"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

// gitRunner runs git for every command. Tests swap it for a fake.
var gitRunner git.Runner = &git.ExecGit{}

// ExitError carries a non-zero exit status whose message has already been
// shown to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var rootCmd = &cobra.Command{
	Use:   "git-police",
	Short: "git-police: interrogates you about your staged changes before each commit",
	Long: `git-police runs as a pre-commit hook. It reads your staged diff, has a
language model ask you one question about why you made the change, and
judges your answer. The commit only goes through on a PASS verdict.

Models run locally through Ollama (local mode) or remotely through Gemini
(global mode). In global mode personal data is scrubbed from the diff
before it leaves the machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(patrolCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(configCmd)
}
