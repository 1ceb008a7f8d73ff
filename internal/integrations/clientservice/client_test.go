package clientservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/clients/42", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"name":"Ольга","phone":"+79990000000","active":true}`))
	})
	mux.HandleFunc("/internal/clients/7", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/internal/clients/500", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetClient(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.Nop())

	client, err := c.GetClient(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), client.ID)
	assert.True(t, client.Active)

	_, err = c.GetClient(context.Background(), 7)
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = c.GetClient(context.Background(), 500)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetClientWithGracefulDegradation(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.Nop())

	_, err := c.GetClientWithGracefulDegradation(context.Background(), 7)
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = c.GetClientWithGracefulDegradation(context.Background(), 500)
	assert.ErrorIs(t, err, ErrServiceDegraded)

	unreachable := NewClient("http://127.0.0.1:1", 100*time.Millisecond, logger.Nop())
	_, err = unreachable.GetClientWithGracefulDegradation(context.Background(), 42)
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
