package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chart/TCS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		assert.Equal(t, "tracker", r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 3542.01}`))
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL, Timeout: time.Second, Headers: map[string]string{"User-Agent": "tracker"}})

	var out struct {
		Price float64 `json:"price"`
	}
	resp, err := client.Get(context.Background(), Request{
		Endpoint: "/chart/TCS",
		Query:    map[string]string{"range": "1d"},
		Headers:  map[string]string{"X-Request-ID": "abc"},
		Result:   &out,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, 3542.01, out.Price)
}

func TestRestyClient_Retry(t *testing.T) {
	tests := []struct {
		name         string
		retryCount   int
		failures     int32
		failStatus   int
		wantStatus   int
		wantAttempts int32
	}{
		{name: "recovers after 503", retryCount: 2, failures: 1, failStatus: http.StatusServiceUnavailable, wantStatus: http.StatusOK, wantAttempts: 2},
		{name: "recovers after 429", retryCount: 2, failures: 2, failStatus: http.StatusTooManyRequests, wantStatus: http.StatusOK, wantAttempts: 3},
		{name: "gives up", retryCount: 1, failures: 5, failStatus: http.StatusBadGateway, wantStatus: http.StatusBadGateway, wantAttempts: 2},
		{name: "no retry on 404", retryCount: 3, failures: 5, failStatus: http.StatusNotFound, wantStatus: http.StatusNotFound, wantAttempts: 1},
		{name: "retries disabled", retryCount: 0, failures: 1, failStatus: http.StatusServiceUnavailable, wantStatus: http.StatusServiceUnavailable, wantAttempts: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failures {
					w.WriteHeader(tt.failStatus)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			client := New(Options{BaseURL: srv.URL, Timeout: time.Second, RetryCount: tt.retryCount, RetryWaitTime: time.Millisecond})
			resp, err := client.Get(context.Background(), Request{Endpoint: "/"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantAttempts, atomic.LoadInt32(&calls))
		})
	}
}
