package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/platform-api/internal/middleware"
	"github.com/deppfellow/platform-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Pinger is anything /status can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingFunc adapts a function to Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the two health endpoints:
//
//   - GET /api/health: liveness, always {"ok": true}, never touches the store
//   - GET /status: readiness, probes the document store and Redis
type HealthHandler struct {
	Handler
	store Pinger
}

func NewHealthHandler(s *server.Server, store Pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		store:   store,
	}
}

// Alive answers the liveness probe.
func (h *HealthHandler) Alive(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// checks returns the dependencies /status should probe, honoring the
// configured list (empty means all).
func (h *HealthHandler) checks() map[string]Pinger {
	all := map[string]Pinger{"store": h.store}
	if h.server.Redis != nil {
		redisClient := h.server.Redis
		all["redis"] = pingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	configured := h.server.Config.Observability.HealthChecks.Checks
	if len(configured) == 0 {
		return all
	}

	selected := make(map[string]Pinger, len(configured))
	for name, pinger := range all {
		if slices.Contains(configured, name) {
			selected[name] = pinger
		}
	}
	return selected
}

// CheckHealth reports overall status and per-dependency results.
//
// It returns 200 when every check passes and 503 otherwise. Each check is
// bounded by the configured health check timeout.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config.Observability.HealthChecks

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"store":       string(h.server.Config.Store.Driver),
		"checks":      checks,
	}

	isHealthy := true

	if cfg.Enabled {
		for name, pinger := range h.checks() {
			ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			checkStart := time.Now()
			err := pinger.Ping(ctx)
			elapsed := time.Since(checkStart)
			cancel()

			if err != nil {
				isHealthy = false
				checks[name] = map[string]interface{}{
					"status":        "unhealthy",
					"response_time": elapsed.String(),
					"error":         err.Error(),
				}

				logger.Error().
					Err(err).
					Str("check", name).
					Dur("response_time", elapsed).
					Msg("health check failed")

				h.recordHealthCheckError(name, elapsed, err)
				continue
			}

			checks[name] = map[string]interface{}{
				"status":        "healthy",
				"response_time": elapsed.String(),
			}

			logger.Debug().
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthCheckError(check string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
