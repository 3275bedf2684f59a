package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/compozy/standup-digest/pkg/logger"
	"github.com/compozy/standup-digest/pkg/version"
)

// RootCmd builds the CLI entrypoint.
func RootCmd() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
		envFile  string
	)
	root := &cobra.Command{
		Use:     "standup-digest",
		Short:   "Generate AI project status reports from standups and issues",
		Version: version.Get().Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(envFile); err == nil {
				if err := godotenv.Load(envFile); err != nil {
					return err
				}
			}
			log := logger.SetupDefault(&logger.Config{
				Level:      logger.LogLevel(logLevel),
				Output:     os.Stderr,
				JSON:       logJSON,
				TimeFormat: "15:04:05",
			})
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an env file loaded before the config")

	root.AddCommand(
		ServeCmd(),
		ReportCmd(),
	)
	return root
}
