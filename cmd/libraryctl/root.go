package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sbilibin2017/gw-library/internal/logger"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dsn        string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "libraryctl",
		Short: "Administrative commands for the library service",
		Long: `libraryctl manages the library database.

Subcommands:
  migrate - Create tables and indexes
  seed    - Insert sample books and users`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(opts.configPath)
			return logger.Initialize(opts.logLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.env", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.dsn, "db", "", "Database connection URL (defaults to POSTGRES_* variables)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level")

	cmd.AddCommand(newMigrateCmd(opts), newSeedCmd(opts))
	return cmd
}

// databaseURL prefers the --db flag over the POSTGRES_* environment.
func (o *rootOptions) databaseURL() string {
	if o.dsn != "" {
		return o.dsn
	}

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "user"),
		getEnv("POSTGRES_PASSWORD", "password"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "library"),
	)
}

func (o *rootOptions) connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", o.databaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	return db, nil
}
