package waitlistclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hackeurope/platform/pkg/waitlistclient"
)

func newClient(t *testing.T, base string) *waitlistclient.Client {
	t.Helper()
	client, err := waitlistclient.New(base)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestConfigConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"configured":true,"url":"https://abcdefghijk.supabase.co","anonKey":"public-anon-key"}`))
	}))
	defer server.Close()

	cfg, err := newClient(t, server.URL).Config(context.Background())
	assert.NoError(t, err)
	assert.True(t, cfg.Configured)
	assert.Equal(t, "https://abcdefghijk.supabase.co", cfg.URL)
	assert.Equal(t, "public-anon-key", cfg.AnonKey)
}

func TestConfigDegradesToUnconfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close()

	cfg, err := newClient(t, server.URL).Config(context.Background())
	assert.Error(t, err)
	assert.False(t, cfg.Configured)
	assert.Empty(t, cfg.URL)
	assert.Empty(t, cfg.AnonKey)
}

func TestCountKeepsLastGoodValueOnFailure(t *testing.T) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"code":"WAITLIST_UNAVAILABLE","message":"down"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":41}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	count, err := client.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(41), count.Value)
	assert.False(t, count.Stale)

	failing.Store(true)
	count, err = client.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(41), count.Value)
	assert.True(t, count.Stale)
}

func TestCountWithoutPriorSuccessReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Count(context.Background())
	assert.Error(t, err)
}

func TestJoinFreshAndDuplicate(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"joined":true,"alreadyJoined":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"joined":true,"alreadyJoined":true}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	result, err := client.Join(context.Background(), "alice@example.com")
	assert.NoError(t, err)
	assert.False(t, result.AlreadyJoined)

	result, err = client.Join(context.Background(), "alice@example.com")
	assert.NoError(t, err)
	assert.True(t, result.AlreadyJoined)
}

func TestJoinSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"EMAIL_INVALID","message":"enter a valid email address"}}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Join(context.Background(), "not-an-email")
	var apiErr waitlistclient.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "EMAIL_INVALID", apiErr.Code)
}
