package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/persistence"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/seed"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap accounts listed in a seed file",
	Long: `Create every account in the seed file whose email is not registered yet.

Passwords may reference environment variables, for example
password: ${SUPREMO_PASSWORD}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		file, err := seed.Load(seedFile)
		if err != nil {
			return err
		}

		var users repository.UserRepository
		if cfg.Postgres.DSN != "" {
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return fmt.Errorf("failed to connect postgres: %w", err)
			}
			defer pg.Close()
			users = repository.NewUserRepository(pg.PoolHandle())
		} else {
			fmt.Println("Warning: no database configured; seeding an in-memory store that is discarded on exit.")
			users = repository.NewMemoryUserRepository()
		}

		directory := service.NewDirectoryService(service.DirectoryDependencies{
			UserRepo:    users,
			Logger:      logger,
			BcryptCost:  cfg.Auth.BcryptCost,
			EmailDomain: cfg.Institution.EmailDomain,
		})

		fmt.Printf("Seeding %d account(s) from %s...\n", len(file.Accounts), seedFile)
		result, err := seed.Apply(ctx, directory, file, logger)
		if err != nil {
			return fmt.Errorf("failed to seed accounts: %w", err)
		}

		fmt.Printf("Created %d, skipped %d existing.\n", result.Created, result.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "seed file path")
}
