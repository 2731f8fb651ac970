package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/platform-api/internal/config"
	"github.com/deppfellow/platform-api/internal/handler"
	"github.com/deppfellow/platform-api/internal/logger"
	"github.com/deppfellow/platform-api/internal/repository"
	"github.com/deppfellow/platform-api/internal/server"
	"github.com/deppfellow/platform-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedOrigin = "https://app.example.com"

func newTestRouter(t *testing.T, configure func(cfg *config.Config)) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{allowedOrigin},
		},
		Store:         config.StoreConfig{Driver: config.StoreMemory},
		Observability: config.DefaultObservabilityConfig(),
	}
	if configure != nil {
		configure(cfg)
	}

	log := zerolog.Nop()
	s := &server.Server{
		Config:        cfg,
		Logger:        &log,
		LoggerService: &logger.LoggerService{},
	}

	repos, err := repository.NewRepositories(s)
	require.NoError(t, err)

	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, r *echo.Echo, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestStatus(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeObject(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"])
	assert.Contains(t, body["checks"], "store")
}

func TestCreateCourse(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodPost, "/api/courses", `{"title":"Intro"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeObject(t, rec)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Intro", body["title"])
	require.IsType(t, "", body["inserted_at"])
	_, err := time.Parse(time.RFC3339Nano, body["inserted_at"].(string))
	assert.NoError(t, err)
}

func TestCreateOverwritesSortField(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodPost, "/api/courses", `{"title":"Intro","inserted_at":"1999-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, "1999-01-01T00:00:00Z", decodeObject(t, rec)["inserted_at"])
}

func TestListOrder(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, title := range []string{"first", "second", "third"} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/courses", `{"title":"`+title+`"}`).Code)
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/registrations", `{"name":"`+title+`"}`).Code)
		time.Sleep(2 * time.Millisecond)
	}

	courses := decodeList(t, do(t, r, http.MethodGet, "/api/courses", ""))
	require.Len(t, courses, 3)
	assert.Equal(t, "first", courses[0]["title"])
	assert.Equal(t, "third", courses[2]["title"])

	registrations := decodeList(t, do(t, r, http.MethodGet, "/api/registrations", ""))
	require.Len(t, registrations, 3)
	assert.Equal(t, "third", registrations[0]["name"])
	assert.Equal(t, "first", registrations[2]["name"])
}

func TestListEmpty(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodGet, "/api/announcements", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCertificateRequestStartsPending(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodPost, "/api/certificate-requests", `{"student":"Ada","status":"approved"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeObject(t, rec)
	assert.Equal(t, "pending", body["status"])
	assert.Contains(t, body, "requestDate")

	list := decodeList(t, do(t, r, http.MethodGet, "/api/certificate-requests", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0]["status"])
}

func TestUpdate(t *testing.T) {
	r := newTestRouter(t, nil)

	created := decodeObject(t, do(t, r, http.MethodPost, "/api/courses", `{"title":"Intro","level":1}`))
	id := created["id"].(string)

	rec := do(t, r, http.MethodPatch, "/api/courses/"+id, `{"level":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id+`","level":2}`, rec.Body.String())

	list := decodeList(t, do(t, r, http.MethodGet, "/api/courses", ""))
	require.Len(t, list, 1)
	assert.Equal(t, "Intro", list[0]["title"])
	assert.EqualValues(t, 2, list[0]["level"])
}

func TestUpdateErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("missing document", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, "/api/courses/missing", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "COURSE_NOT_FOUND", decodeObject(t, rec)["code"])
	})

	t.Run("empty update", func(t *testing.T) {
		created := decodeObject(t, do(t, r, http.MethodPost, "/api/announcements", `{"text":"hi"}`))
		rec := do(t, r, http.MethodPatch, "/api/announcements/"+created["id"].(string), `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "EMPTY_UPDATE", decodeObject(t, rec)["code"])
	})

	t.Run("registrations are not patchable", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, "/api/registrations/abc123", `{"name":"x"}`)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := newTestRouter(t, nil)

	created := decodeObject(t, do(t, r, http.MethodPost, "/api/registrations", `{"name":"Ada"}`))
	id := created["id"].(string)

	for i := 0; i < 2; i++ {
		rec := do(t, r, http.MethodDelete, "/api/registrations/"+id, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	}

	rec := do(t, r, http.MethodDelete, "/api/registrations/abc123", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Empty(t, decodeList(t, do(t, r, http.MethodGet, "/api/registrations", "")))
}

func TestBodyCannotRetargetPathID(t *testing.T) {
	r := newTestRouter(t, nil)

	keep := decodeObject(t, do(t, r, http.MethodPost, "/api/courses", `{"title":"keep"}`))["id"].(string)
	target := decodeObject(t, do(t, r, http.MethodPost, "/api/courses", `{"title":"target"}`))["id"].(string)

	rec := do(t, r, http.MethodPatch, "/api/courses/"+target, `{"id":"`+keep+`","level":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, target, decodeObject(t, rec)["id"])

	rec = do(t, r, http.MethodDelete, "/api/courses/"+target, `{"id":"`+keep+`"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	list := decodeList(t, do(t, r, http.MethodGet, "/api/courses", ""))
	require.Len(t, list, 1)
	assert.Equal(t, keep, list[0]["id"])
	assert.Equal(t, "keep", list[0]["title"])
}

func TestBadBodies(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[1,2]`, http.StatusBadRequest},
		{"string", `"title"`, http.StatusBadRequest},
		{"malformed", `{"title":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/courses", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "BAD_REQUEST", decodeObject(t, rec)["code"])
		})
	}

	assert.Empty(t, decodeList(t, do(t, r, http.MethodGet, "/api/courses", "")))
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, nil)

	t.Run("allowed origin", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/courses", "", echo.HeaderOrigin, allowedOrigin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, allowedOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/api/courses", `{"title":"x"}`, echo.HeaderOrigin, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "NOT_ALLOWED_BY_CORS", decodeObject(t, rec)["code"])
		assert.Empty(t, decodeList(t, do(t, r, http.MethodGet, "/api/courses", "")))
	})

	t.Run("no origin", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/courses", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeObject(t, rec)["code"])
}

func TestDocsAssets(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := do(t, r, http.MethodGet, "/static/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeObject(t, rec), "openapi")

	rec = do(t, r, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/health", "").Code)

	rec := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeObject(t, rec)["code"])
}
