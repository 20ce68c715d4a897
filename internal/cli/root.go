// Package cli implements the qaindex command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"qaindex/internal/config"
	"qaindex/internal/logging"
)

var (
	cfgPath  string
	logLevel string

	appConfig *config.AppConfig
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "qaindex",
	Short: "Answer questions from a closed reference corpus",
	Long: `qaindex answers free-text questions by finding the most similar known
question in a fixed corpus of question/answer pairs and returning its stored
answer with a confidence score and the source it came from.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML or TOML config (default ./qaindex.yaml, then ~/.config/qaindex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	appConfig = cfg
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}
