package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/platform-api/internal/config"
	"github.com/deppfellow/platform-api/internal/database"
	"github.com/deppfellow/platform-api/internal/handler"
	"github.com/deppfellow/platform-api/internal/logger"
	"github.com/deppfellow/platform-api/internal/repository"
	"github.com/deppfellow/platform-api/internal/router"
	"github.com/deppfellow/platform-api/internal/server"
	"github.com/deppfellow/platform-api/internal/service"
	"github.com/rs/zerolog/log"
)

// DefaultContextTimeout bounds startup work and the shutdown drain.
const DefaultContextTimeout = 30

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)

	if cfg.Store.Driver == config.StorePostgres && cfg.Database.AutoMigrate {
		if err := database.Migrate(startupCtx, &log, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(startupCtx, cfg, &log, loggerService)
	cancelStartup()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create repositories")
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
