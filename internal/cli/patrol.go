package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gitpolice/internal/config"
	"github.com/lucasnoah/gitpolice/internal/git"
	"github.com/lucasnoah/gitpolice/internal/interrogate"
	"github.com/lucasnoah/gitpolice/internal/llm"
	"github.com/lucasnoah/gitpolice/internal/patrol"
	"github.com/lucasnoah/gitpolice/internal/relevance"
	"github.com/lucasnoah/gitpolice/internal/scrub"
	"github.com/lucasnoah/gitpolice/internal/ui"
)

var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Interrogate the staged changes and gate the commit on the verdict",
	Long: `Reads the staged diff, asks one question about it and judges your answer.

Exits 0 when nothing relevant is staged or the verdict is PASS, and 1 when
the verdict is FAIL or no question could be produced. The installed
pre-commit hook runs this command.`,
	RunE: runPatrol,
}

func init() {
	patrolCmd.Flags().String("mode", config.DefaultMode, "local (Ollama) or global (Gemini) [$GIT_POLICE_MODE]")
	patrolCmd.Flags().String("model", config.DefaultModel, "the Ollama model to use in local mode [$GIT_POLICE_MODEL]")
	patrolCmd.Flags().Int("max-char", config.DefaultMaxChar, "maximum diff characters sent to the local model [$MAX_CHAR]")
}

// applyPatrolFlags overrides cfg with flags the user actually set.
func applyPatrolFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("max-char") {
		cfg.MaxChar, _ = flags.GetInt("max-char")
	}
}

func runPatrol(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, runID := newRunLogger(cmd.ErrOrStderr())
	logger.Printf("run %s starting", runID)

	collector := git.NewCollector(gitRunner, "")
	repoRoot, _ := collector.RepoRoot(ctx)

	cfg, err := resolveConfig(repoRoot)
	if err != nil {
		return err
	}
	applyPatrolFlags(cmd, cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", e)
		}
		return fmt.Errorf("invalid configuration (%d error(s))", len(errs))
	}
	logger.Printf("config: source=%q mode=%s model=%s budget=%d", cfg.Source, cfg.Mode, cfg.Model, cfg.Budget())

	opts := interrogate.Options{
		Mode:         interrogate.Mode(cfg.Mode),
		LocalModel:   cfg.Model,
		RemoteModel:  cfg.Gemini.Model,
		Local:        llm.NewOllama(cfg.Ollama.Host, cfg.OllamaTimeout()),
		Scrubber:     scrub.New(),
		TemplatesDir: templatesDir(repoRoot, cfg.TemplatesDir),
		Logger:       logger,
	}
	if opts.Mode == interrogate.ModeGlobal {
		remote, err := llm.NewGemini(cfg.Gemini.BaseURL, cfg.APIKey, cfg.GeminiTimeout())
		if err != nil {
			opts.RemoteErr = err
		} else {
			opts.Remote = remote
		}
	}

	console := ui.New(cmd.InOrStdin(), cmd.OutOrStdout())
	console.OnInterrupt(cancel)

	out := patrol.Run(ctx, patrol.Options{
		Collector:  collector,
		Filter:     relevance.New(cfg.Filter.ExcludeFiles, cfg.Filter.ExcludeExtensions, cfg.Filter.Ignore),
		Questioner: interrogate.New(opts),
		Shell:      console,
		Budget:     cfg.Budget(),
		Logger:     logger,
	})
	logger.Printf("run %s finished: %s (exit %d)", runID, out.Status, out.ExitCode())

	if code := out.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// resolveConfig loads the config file for repoRoot and overlays the
// environment. Flags are applied by the caller.
func resolveConfig(repoRoot string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadDefault(repoRoot)
	}
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	config.LoadAPIKey(cfg)
	return cfg, nil
}

func templatesDir(repoRoot, dir string) string {
	if dir == "" || filepath.IsAbs(dir) || repoRoot == "" {
		return dir
	}
	return filepath.Join(repoRoot, dir)
}
