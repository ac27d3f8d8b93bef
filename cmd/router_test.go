package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (c *memoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memoryCounter) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	return keys
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func stubHandlers() apiHandlers {
	return apiHandlers{
		proposeAppointment:    ok,
		getAvailableSlots:     ok,
		getAppointment:        ok,
		cancelAppointment:     ok,
		completeAppointment:   ok,
		getClientAppointments: ok,
		getStaffAppointments:  ok,
		getStaffAgenda:        ok,
		deleteStaff:           ok,
		getShopConfig:         ok,
		getShopConfigs:        ok,
		updateShopConfig:      ok,
		deleteShopConfig:      ok,
	}
}

func newLimitedRouter(t *testing.T, trustedProxies ...string) (*mux.Router, *memoryCounter) {
	t.Helper()

	trusted, err := middleware.ParseTrustedProxies(trustedProxies)
	require.NoError(t, err)

	counter := &memoryCounter{counts: map[string]int64{}}
	r := mux.NewRouter()
	registerRoutes(r, stubHandlers(), middleware.RateLimit(counter, middleware.RateLimitConfig{
		Limit:          2,
		Window:         time.Minute,
		Prefix:         "test",
		TrustedProxies: trusted,
	}, nil, logger.NewNop()))

	return r, counter
}

type call struct {
	method  string
	path    string
	userID  string
	remote  string
	forward string
}

func (c call) do(r http.Handler) int {
	req := httptest.NewRequest(c.method, c.path, nil)
	req.RemoteAddr = c.remote + ":5555"
	if c.userID != "" {
		req.Header.Set(middleware.UserIDHeader, c.userID)
	}
	if c.forward != "" {
		req.Header.Set("X-Forwarded-For", c.forward)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoutes_ProtectedLimitKeyedByUser(t *testing.T) {
	r, counter := newLimitedRouter(t)

	user1 := call{method: http.MethodPost, path: "/api/v1/appointments", userID: "1", remote: "10.0.0.1"}
	user2 := call{method: http.MethodPost, path: "/api/v1/appointments", userID: "2", remote: "10.0.0.1"}

	assert.Equal(t, http.StatusOK, user1.do(r))
	assert.Equal(t, http.StatusOK, user1.do(r))
	assert.Equal(t, http.StatusOK, user2.do(r), "another user behind the same address has its own window")
	assert.Equal(t, http.StatusTooManyRequests, user1.do(r))

	for _, key := range counter.keys() {
		assert.Contains(t, key, ":user:")
	}
}

func TestRoutes_UnauthenticatedDoesNotConsumeLimit(t *testing.T) {
	r, counter := newLimitedRouter(t)

	anonymous := call{method: http.MethodGet, path: "/api/v1/appointments/5", remote: "10.0.0.1"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, anonymous.do(r))
	}
	assert.Empty(t, counter.keys())
}

func TestRoutes_PublicLimitIgnoresUntrustedForwardedFor(t *testing.T) {
	r, counter := newLimitedRouter(t)

	for i, forward := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		c := call{method: http.MethodGet, path: "/api/v1/staff/7/available-slots", remote: "198.51.100.9", forward: forward}
		want := http.StatusOK
		if i == 2 {
			want = http.StatusTooManyRequests
		}
		assert.Equal(t, want, c.do(r), "request %d", i)
	}

	keys := counter.keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], ":ip:198.51.100.9"), keys[0])
}

func TestRoutes_PublicLimitBehindTrustedProxy(t *testing.T) {
	r, _ := newLimitedRouter(t, "10.0.0.0/8")

	first := call{method: http.MethodGet, path: "/api/v1/shops/1/config", remote: "10.1.2.3", forward: "203.0.113.1"}
	second := call{method: http.MethodGet, path: "/api/v1/shops/1/config", remote: "10.1.2.3", forward: "203.0.113.2, 10.9.9.9"}

	assert.Equal(t, http.StatusOK, first.do(r))
	assert.Equal(t, http.StatusOK, first.do(r))
	assert.Equal(t, http.StatusTooManyRequests, first.do(r))
	assert.Equal(t, http.StatusOK, second.do(r), "the client address behind the proxy chain is used")
}

func TestRoutes_MethodsShareConfigPath(t *testing.T) {
	r := mux.NewRouter()
	registerRoutes(r, stubHandlers(), nil)

	assert.Equal(t, http.StatusOK, call{method: http.MethodGet, path: "/api/v1/shops/1/config", remote: "10.0.0.1"}.do(r))
	assert.Equal(t, http.StatusUnauthorized, call{method: http.MethodPut, path: "/api/v1/shops/1/config", remote: "10.0.0.1"}.do(r))
	assert.Equal(t, http.StatusOK, call{method: http.MethodPut, path: "/api/v1/shops/1/config", userID: "100", remote: "10.0.0.1"}.do(r))
}
