package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gitpolice/internal/git"
	"github.com/lucasnoah/gitpolice/internal/hook"
	"github.com/lucasnoah/gitpolice/internal/prompt"
)

var (
	initForce     bool
	initTemplates bool
	initBinary    string
)

// defaultTemplatesDir is where `init --templates` writes editable prompts.
const defaultTemplatesDir = ".git-police/templates"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the pre-commit hook into the current repository",
	Long: `Writes a pre-commit hook that runs "git-police patrol" before every commit.

An existing hook not written by git-police is left alone unless --force is
given, in which case it is kept as pre-commit.bak. With --templates the
built-in prompt templates are also copied to .git-police/templates for
editing; set templates_dir in .git-police.yaml to use them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		collector := git.NewCollector(gitRunner, "")

		root, err := collector.RepoRoot(ctx)
		if err != nil {
			var cmdErr *git.CmdError
			if errors.As(err, &cmdErr) && cmdErr.NotInRepo() {
				return errors.New("not a git repository; run 'git init' first")
			}
			return fmt.Errorf("locating repository: %w", err)
		}
		hooksDir, err := collector.HooksDir(ctx)
		if err != nil {
			return fmt.Errorf("locating hooks directory: %w", err)
		}

		res, err := hook.Install(hooksDir, hook.Options{Binary: initBinary, Force: initForce})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Backup != "" {
			fmt.Fprintf(out, "Existing hook saved to %s\n", res.Backup)
		}
		if res.Replaced {
			fmt.Fprintf(out, "Git Police hook updated: %s\n", res.Path)
		} else {
			fmt.Fprintf(out, "Git Police hook installed: %s\n", res.Path)
		}

		if initTemplates {
			dir := filepath.Join(root, defaultTemplatesDir)
			written, err := prompt.WriteBuiltins(dir)
			if err != nil {
				return fmt.Errorf("writing templates: %w", err)
			}
			for _, path := range written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			if len(written) == 0 {
				fmt.Fprintf(out, "Prompt templates already present in %s\n", dir)
			}
		}

		fmt.Fprintln(out, "Run 'git commit' to test the interrogation. Default is local mode.")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the git-police pre-commit hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		hooksDir, err := git.NewCollector(gitRunner, "").HooksDir(cmd.Context())
		if err != nil {
			return fmt.Errorf("locating hooks directory: %w", err)
		}
		removed, err := hook.Uninstall(hooksDir)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), "No git-police hook installed.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Git Police hook removed.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing pre-commit hook (kept as pre-commit.bak)")
	initCmd.Flags().BoolVar(&initTemplates, "templates", false, "also write the built-in prompt templates for editing")
	initCmd.Flags().StringVar(&initBinary, "binary", "", "git-police executable the hook runs (default: this executable)")
}
