// Package postgres opens the shared gorm handle and provides transaction helpers.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options tune the connection pool. Zero values keep database/sql defaults.
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// OptionsFromEnv reads POSTGRES_DSN and the POSTGRES_MAX_OPEN_CONNS,
// POSTGRES_MAX_IDLE_CONNS, POSTGRES_CONN_MAX_LIFETIME and POSTGRES_SLOW_QUERY tunables.
func OptionsFromEnv() (Options, error) {
	opts := Options{
		DSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SlowQuery: 200 * time.Millisecond,
	}
	var err error
	if opts.MaxOpenConns, err = envInt("POSTGRES_MAX_OPEN_CONNS"); err != nil {
		return Options{}, err
	}
	if opts.MaxIdleConns, err = envInt("POSTGRES_MAX_IDLE_CONNS"); err != nil {
		return Options{}, err
	}
	if opts.ConnMaxLifetime, err = envDuration("POSTGRES_CONN_MAX_LIFETIME", 0); err != nil {
		return Options{}, err
	}
	if opts.SlowQuery, err = envDuration("POSTGRES_SLOW_QUERY", opts.SlowQuery); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Connect opens dsn with default pool settings.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	return Open(ctx, Options{DSN: dsn}, nil)
}

// Open dials PostgreSQL and pings it. Driver errors are translated so unique
// violations surface as gorm.ErrDuplicatedKey. SQL logging goes to logger at
// warn level for slow queries and errors only.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	cfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		cfg.Logger = gormlogger.New(slogWriter{logger}, gormlogger.Config{
			SlowThreshold:             opts.SlowQuery,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(postgres.Open(opts.DSN), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// ConnectFromEnv dials PostgreSQL from the environment and returns the handle
// plus a cleanup function. A missing DSN or a failed dial is logged and yields
// nil, which callers treat as "use the in-memory repositories".
func ConnectFromEnv(ctx context.Context, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() {}
	opts, err := OptionsFromEnv()
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "invalid postgres settings, using in-memory repositories", slog.String("error", err.Error()))
		return nil, noop
	}
	if opts.DSN == "" {
		logger.LogAttrs(ctx, slog.LevelWarn, "POSTGRES_DSN not set, using in-memory repositories")
		return nil, noop
	}
	db, err := Open(ctx, opts, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "postgres unavailable, using in-memory repositories", slog.String("error", err.Error()))
		return nil, noop
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "postgres handle unusable, using in-memory repositories", slog.String("error", err.Error()))
		return nil, noop
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "postgres connection established", slog.Int("pool.max_open", opts.MaxOpenConns))
	return db, func() { _ = sqlDB.Close() }
}

// slogWriter adapts slog to gorm's printf-style logger.
type slogWriter struct{ logger *slog.Logger }

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn("gorm", slog.String("sql", fmt.Sprintf(format, args...)))
}

func envInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration, got %q", key, raw)
	}
	return d, nil
}
