package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counts map[string]int64
	err    error
}

func (f *fakeStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestUploadRateLimitAllowsUnderLimit(t *testing.T) {
	store := &fakeStore{}
	handler := UploadRateLimit(NewUploadRateLimitPolicy(time.Minute, 2), store, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/data/full-report", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestUploadRateLimitBlocksOverLimit(t *testing.T) {
	store := &fakeStore{}
	handler := UploadRateLimit(NewUploadRateLimitPolicy(time.Minute, 1), store, nil)(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/upload", nil)
	first.RemoteAddr = "10.0.0.1:4321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/upload", nil)
	second.RemoteAddr = "10.0.0.1:9999"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestUploadRateLimitSeparatesClients(t *testing.T) {
	store := &fakeStore{}
	handler := UploadRateLimit(NewUploadRateLimitPolicy(time.Minute, 1), store, nil)(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, addr)
	}
}

func TestUploadRateLimitHonorsForwardedFor(t *testing.T) {
	store := &fakeStore{}
	handler := UploadRateLimit(NewUploadRateLimitPolicy(time.Minute, 1), store, nil)(okHandler())

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "127.0.0.1:1"
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
}

func TestUploadRateLimitDisabledWithoutStore(t *testing.T) {
	handler := UploadRateLimit(NewUploadRateLimitPolicy(time.Minute, 1), nil, nil)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
