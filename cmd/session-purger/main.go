package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	userpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
)

const purgeTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}
	store := userpostgres.NewSessionStore(db)

	schedule := strings.TrimSpace(os.Getenv("SESSION_PURGE_SCHEDULE"))
	if schedule == "" || strings.EqualFold(schedule, "once") {
		if err := purge(ctx, store, logger); err != nil {
			log.Fatalf("failed to purge sessions: %v", err)
		}
		return
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	scheduler := cron.New(cron.WithLocation(time.UTC), cron.WithParser(parser))
	if _, err := scheduler.AddFunc(schedule, func() {
		if err := purge(ctx, store, logger); err != nil {
			logger.Error("session purge failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		log.Fatalf("invalid SESSION_PURGE_SCHEDULE %q: %v", schedule, err)
	}
	scheduler.Start()
	logger.Info("session purger scheduled", slog.String("schedule", schedule))

	<-ctx.Done()
	<-scheduler.Stop().Done()
	logger.Info("session purger stopped")
}

func purge(ctx context.Context, store *userpostgres.SessionStore, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()
	removed, err := store.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "session purge completed", slog.Int64("removed", removed))
	return nil
}
