// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the document store connection for the configured driver
//   - redis client (redis driver and background jobs)
//   - background job worker server (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/deppfellow/platform-api/internal/config"
	"github.com/deppfellow/platform-api/internal/database"
	"github.com/deppfellow/platform-api/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/platform-api/internal/logger"
)

// RedisPingTimeout bounds the startup Redis check.
const RedisPingTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Exactly one store connection is set,
// matching Config.Store.Driver; the memory driver needs none.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is set for the postgres driver.
	DB *database.Database

	// Firestore is set for the firestore driver.
	Firestore *firestore.Client

	// Redis is set for the redis driver and whenever jobs are enabled.
	Redis *redis.Client

	// Job is set when certificate request notifications are enabled.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and opens every connection the config asks for.
//
// Startup fails fast: a store or queue that cannot be reached is an error,
// since no request could be served without it.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.New(ctx, cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
	case config.StoreFirestore:
		client, err := database.NewFirestore(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize firestore: %w", err)
		}
		s.Firestore = client
	}

	if cfg.Store.Driver == config.StoreRedis || cfg.JobsEnabled() {
		client, err := newRedisClient(ctx, cfg.Redis, loggerService)
		if err != nil {
			s.closeStores()
			return nil, err
		}
		s.Redis = client
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}

	if cfg.JobsEnabled() {
		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(cfg, logger)

		if err := jobService.Start(); err != nil {
			s.closeStores()
			return nil, err
		}
		s.Job = jobService
	}

	return s, nil
}

// newRedisClient creates a client, adds New Relic hooks when the agent is
// running, and pings it.
func newRedisClient(ctx context.Context, cfg config.RedisConfig, loggerService *loggerPkg.LoggerService) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
// Config timeouts are interpreted as seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops;
// http.ErrServerClosed after Shutdown is not reported as an error.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", string(s.Config.Store.Driver)).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then stops jobs and closes stores.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.closeStores(); err != nil {
		errList = append(errList, err)
	}

	return errors.Join(errList...)
}

func (s *Server) closeStores() error {
	var errList []error

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}
	if s.Firestore != nil {
		if err := s.Firestore.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close firestore client: %w", err))
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errList...)
}
