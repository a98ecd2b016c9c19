package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/persistence"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to the database",
	Long: `Apply every .sql file in the migrations directory in name order.

The files are idempotent, so running migrate against an up to date database
changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("no database configured: set POSTGRES_DSN or pass --dsn")
		}
		dir := cfg.Postgres.MigrationsDir
		if migrationsDir != "" {
			dir = migrationsDir
		}

		fmt.Println("Connecting to database...")
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("failed to connect postgres: %w", err)
		}
		defer pg.Close()

		fmt.Printf("Applying migrations from %s...\n", dir)
		applied, err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		fmt.Printf("Applied %d migration file(s).\n", applied)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (overrides POSTGRES_MIGRATIONS_DIR)")
}
