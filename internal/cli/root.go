package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/config"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/observability"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	dsn     string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "soportectl",
	Short: "Operator tool for the student support service",
	Long: `soportectl prepares a deployment of the student support service.

It applies the SQL migrations and seeds the first accounts, which cannot be
created through the API because account creation requires an administrator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dsn != "" {
			cfg.Postgres.DSN = dsn
		}
		logger, err = observability.NewLogger(cfg.Logger, cfg.App)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("soportectl %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres connection string (overrides POSTGRES_DSN)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return rootCmd.Execute()
}

func Root() *cobra.Command {
	return rootCmd
}
