package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-tracker/config"
	"portfolio-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestMiddlewares(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	e := echo.New()
	e.Use(NewRequestIDMiddleware(), NewRequestLoggerMiddleware(log))
	e.GET("/ping", func(c echo.Context) error {
		log.InfoContext(c.Request().Context(), "inside handler")
		return c.String(http.StatusOK, "pong")
	})

	tests := []struct {
		name      string
		requestID string
	}{
		{name: "generated id"},
		{name: "forwarded id", requestID: "req-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.TakeAll()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.requestID != "" {
				req.Header.Set(echo.HeaderXRequestID, tt.requestID)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			id := rec.Header().Get(echo.HeaderXRequestID)
			require.NotEmpty(t, id)
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, id)
			}

			entries := logs.All()
			require.Len(t, entries, 2)
			assert.Equal(t, "inside handler", entries[0].Message)
			assert.Equal(t, id, entries[0].ContextMap()["request_id"])
			assert.Equal(t, "Request handled", entries[1].Message)
			assert.Equal(t, int64(http.StatusOK), entries[1].ContextMap()["status"])
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.RateLimit
		path      string
		wantCodes []int
	}{
		{
			name:      "burst then deny",
			cfg:       config.RateLimit{RequestPerSecond: 1, Burst: 2},
			path:      "/api",
			wantCodes: []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests},
		},
		{
			name:      "skipped path",
			cfg:       config.RateLimit{RequestPerSecond: 1, Burst: 1},
			path:      "/",
			wantCodes: []int{http.StatusOK, http.StatusOK, http.StatusOK},
		},
		{
			name:      "disabled",
			cfg:       config.RateLimit{},
			path:      "/api",
			wantCodes: []int{http.StatusOK, http.StatusOK, http.StatusOK},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(NewRateLimiterMiddleware(tt.cfg, "/"))
			e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			e.GET("/api", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

			codes := make([]int, 0, len(tt.wantCodes))
			var last *httptest.ResponseRecorder
			for range tt.wantCodes {
				last = httptest.NewRecorder()
				e.ServeHTTP(last, httptest.NewRequest(http.MethodGet, tt.path, nil))
				codes = append(codes, last.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
			if last.Code == http.StatusTooManyRequests {
				assert.Equal(t, "1", last.Header().Get("Retry-After"))
				assert.JSONEq(t, `{"success":false,"message":"TOO_MANY_REQUESTS"}`, last.Body.String())
			}
		})
	}
}
