package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Trivia   Trivia
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders a keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
	if p.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", p.MaxConns)
	}
	return dsn
}

// Redis configures the optional question event channel. An empty Addr disables it.
type Redis struct {
	Addr          string `env:"REDIS_ADDR" envDefault:""`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize      int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	EventsChannel string `env:"QUESTION_EVENTS_CHANNEL" envDefault:"trivia:questions"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Trivia groups question bank defaults.
type Trivia struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
	QuizMaxDraws     int `env:"QUIZ_MAX_DRAWS" envDefault:"1000"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization,true"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPostgres parses only the database section; used by the migrator.
func LoadPostgres() (*Postgres, error) {
	cfg := &Postgres{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return cfg, nil
}

func (c *App) validate() error {
	if c.Trivia.QuestionsPerPage <= 0 {
		return fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", c.Trivia.QuestionsPerPage)
	}
	if c.Trivia.QuizMaxDraws <= 0 {
		return fmt.Errorf("QUIZ_MAX_DRAWS must be positive, got %d", c.Trivia.QuizMaxDraws)
	}
	return nil
}
