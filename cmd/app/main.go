package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/fairway/competitions/internal/config"
	"github.com/fairway/competitions/internal/db"
	"github.com/fairway/competitions/internal/events"
	"github.com/fairway/competitions/internal/handler"
	"github.com/fairway/competitions/internal/handler/server"
	"github.com/fairway/competitions/internal/logger"
	"github.com/fairway/competitions/internal/metrics"
	"github.com/fairway/competitions/internal/repository"
	"github.com/fairway/competitions/internal/repository/memory"
	"github.com/fairway/competitions/internal/repository/postgres"
	"github.com/fairway/competitions/internal/service"
)

type storage struct {
	uow   repository.UnitOfWorkFactory
	users repository.UserRepository
	stats repository.StatsRepository
	close func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	m := metrics.New(prometheus.DefaultRegisterer)

	store, err := openStorage(cfg, m, logger.Module(log, "storage"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	publisher := events.NewLogPublisher(logger.Module(log, "events"), m)

	competitionService := service.NewCompetitionService(store.uow, store.users, publisher)
	enrollmentService := service.NewEnrollmentService(store.uow, publisher)
	invitationService := service.NewInvitationService(store.uow, store.users, publisher)
	statsService := service.NewStatsService(store.stats)

	h := handler.NewHandler(competitionService, enrollmentService, invitationService, statsService, logger.Module(log, "http"))
	srv := server.NewServer(h, cfg.HTTPAddr, prometheus.DefaultGatherer, logger.Module(log, "server"))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func openStorage(cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		s := memory.NewStore()
		s.SeedCountries()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			uow:   memory.NewUnitOfWorkFactory(s, m),
			users: s.Users(),
			stats: s.Stats(),
			close: func() error { return nil },
		}, nil
	}

	database, err := db.NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("connected to database")

	if cfg.Database.Migrate {
		version, err := db.Migrate(database)
		if err != nil {
			database.Close()
			return nil, err
		}
		log.Info().Uint("version", version).Msg("schema migrated")
	}

	return postgresStorage(database, m), nil
}

func postgresStorage(database *sql.DB, m *metrics.Metrics) *storage {
	return &storage{
		uow:   postgres.NewUnitOfWorkFactory(database, m),
		users: postgres.NewUserRepository(database),
		stats: postgres.NewStatsRepository(database),
		close: database.Close,
	}
}
