package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucasnoah/gitpolice/internal/config"
	"github.com/lucasnoah/gitpolice/internal/git"
)

var configFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and inspect git-police configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		errs := config.Validate(cfg)
		if len(errs) == 0 {
			cmd.Println("Configuration is valid.")
			return nil
		}

		cmd.Println("Validation errors:")
		for _, e := range errs {
			cmd.Printf("  - %s\n", e)
		}
		return fmt.Errorf("config has %d validation error(s)", len(errs))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration with defaults and environment merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}

		source := cfg.Source
		if source == "" {
			source = "built-in defaults"
		}
		cmd.Printf("# source: %s\n", source)
		if cfg.APIKey != "" {
			cmd.Println("# gemini api key: set")
		} else {
			cmd.Println("# gemini api key: not set")
		}
		cmd.Print(string(data))
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root, _ := git.NewCollector(gitRunner, "").RepoRoot(cmd.Context())
	return resolveConfig(root)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a git-police config file (YAML or TOML)")
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}
