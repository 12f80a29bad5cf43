package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Main runs the subtrans command line and exits non-zero on failure.
func Main() {
	// Best-effort: allow local .env for development.
	_ = godotenv.Load()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "subtrans",
		Short:         "Translate SRT subtitles in size-limited batches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(newTranslateCommand(), newServeCommand(), newLanguagesCommand())
	return root
}

// loadConfig reads the environment configuration and applies the
// --log-level flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.System.LogLevel
	}
	log.GetLogger().SetLevel(log.ParseLevel(level))
	return cfg, nil
}
