package repository

import (
	"context"
	"fmt"

	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/database"
	"github.com/rs/zerolog"
)

// Backend is an open database connection together with its repositories.
// Exactly one of Postgres and Mongo is set.
type Backend struct {
	*Repositories
	Postgres *database.DB
	Mongo    *database.Mongo
}

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, log zerolog.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Backend{Repositories: NewPostgres(db), Postgres: db}, nil
	case config.DriverMongo:
		m, err := database.NewMongo(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Backend{Repositories: NewMongo(m), Mongo: m}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Prepare brings the schema up to date: migrations for PostgreSQL,
// indexes for MongoDB
func (b *Backend) Prepare(ctx context.Context, migrationsPath string) error {
	if b.Postgres != nil {
		return b.Postgres.RunMigrations(migrationsPath)
	}
	return b.Mongo.EnsureIndexes(ctx)
}

// HealthCheck pings the database
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.Postgres != nil {
		return b.Postgres.HealthCheck(ctx)
	}
	return b.Mongo.HealthCheck(ctx)
}

// Close releases the connection pool
func (b *Backend) Close() error {
	if b.Postgres != nil {
		return b.Postgres.Close()
	}
	return b.Mongo.Close()
}
