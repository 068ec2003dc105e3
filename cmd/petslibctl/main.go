// Command petslibctl runs maintenance tasks against the PetsLib database.
package main

import (
	"fmt"
	"os"

	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/seed"
	"github.com/petslib-api/internal/service"
	"github.com/petslib-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "petslibctl",
		Short:         "Maintenance commands for the PetsLib API database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			log = logger.New(cfg.Log.Level, "pretty")
			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(indexesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withBackend opens the configured database for the duration of fn
func withBackend(fn func(b *repository.Backend) error) error {
	b, err := repository.Open(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back PostgreSQL migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPostgres(func(b *repository.Backend) error {
				return b.Postgres.RunMigrations(cfg.Database.MigrationsPath)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPostgres(func(b *repository.Backend) error {
				return b.Postgres.MigrateDown(cfg.Database.MigrationsPath)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPostgres(func(b *repository.Backend) error {
				version, dirty, err := b.Postgres.Version(cfg.Database.MigrationsPath)
				if err != nil {
					return err
				}
				fmt.Printf("Schema version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

func withPostgres(fn func(b *repository.Backend) error) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations only apply to DB_DRIVER=%s", config.DriverPostgres)
	}
	return withBackend(fn)
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace articles, breeds and users with the bundled demo content",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.Load()
			if err != nil {
				return err
			}
			return withBackend(func(b *repository.Backend) error {
				if err := b.Prepare(cmd.Context(), cfg.Database.MigrationsPath); err != nil {
					return err
				}
				res, err := seed.NewSeeder(b.Repositories, log).Run(cmd.Context(), fixture)
				if err != nil {
					return err
				}
				fmt.Printf("Seeded %d articles and %d breeds; admin login %s / %s\n",
					res.Articles, res.Breeds, res.AdminEmail, fixture.Admin.Password)
				return nil
			})
		},
	}
}

func createAdminCmd() *cobra.Command {
	var req models.UserCreate
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account with admin privileges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(func(b *repository.Backend) error {
				tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
				if err != nil {
					return err
				}
				services := service.NewServices(b.Repositories, cfg, tokens, nil, log)
				user, err := services.Auth.CreateAdmin(cmd.Context(), &req)
				if err != nil {
					return err
				}
				fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password (min 6 characters)")
	cmd.Flags().StringVar(&req.FullName, "name", "Administrator", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Database.Driver != config.DriverMongo {
				fmt.Println("PostgreSQL indexes are created by migrations; nothing to do")
				return nil
			}
			return withBackend(func(b *repository.Backend) error {
				if err := b.Mongo.EnsureIndexes(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Indexes created")
				return nil
			})
		},
	}
}
