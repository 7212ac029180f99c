package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "migrator",
	Short:         "Apply or roll back the trivia database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				log.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
			}
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			if err := goose.Up(db, "."); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			log.Info().Msg("migrations applied successfully")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			if err := goose.Down(db, "."); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			log.Info().Msg("migrations rolled back successfully")
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *sql.DB) error {
			return goose.Status(db, ".")
		})
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "configs/.env", "Optional dotenv file with PG_* settings")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("migrator failed")
	}
}

// withDB opens the configured database, points goose at the embedded
// migrations and runs fn.
func withDB(fn func(db *sql.DB) error) error {
	pg, err := config.LoadPostgres()
	if err != nil {
		return err
	}

	// pool_max_conns is a pgxpool setting; plain pgx would send it to the server
	pg.MaxConns = 0
	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Msg("connected to database")

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return fn(db)
}
