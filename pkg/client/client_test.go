package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/param-sweep/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret"})
	require.NoError(t, err)
	return c
}

func sampleConfig() *models.Configuration {
	return &models.Configuration{
		ID:          "stale",
		Name:        "grid",
		Description: "learning rate sweep",
		Parameters: []models.Parameter{
			{Key: "lr", Type: models.ParamFloat, Values: []models.Value{0.1, 0.01}},
			{Key: "layers", Type: models.ParamInt, Values: []models.Value{int64(2), int64(4)}},
		},
	}
}

func TestCreateConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require := require.New(t)
		require.Equal(http.MethodPost, r.Method)
		require.Equal("/configs", r.URL.Path)
		require.Equal("Bearer secret", r.Header.Get("Authorization"))
		require.NotEmpty(r.Header.Get("X-Request-ID"))

		var body map[string]interface{}
		require.NoError(json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		require.False(hasID, "id must not be sent on create")
		require.Equal("grid", body["name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"12345"}`))
	})

	saved, err := c.CreateConfig(context.Background(), sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, "12345", saved.ID)
}

func TestCreateConfigBackendError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate name", http.StatusConflict)
	})

	_, err := c.CreateConfig(context.Background(), sampleConfig())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "duplicate name", apiErr.Error())
}

func TestAPIErrorWithoutBody(t *testing.T) {
	err := &APIError{StatusCode: http.StatusBadGateway}
	assert.Equal(t, "HTTP 502: Bad Gateway", err.Error())
}

func TestGetConfigEscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require := require.New(t)
		require.Equal(http.MethodGet, r.Method)
		require.Equal("/configs/a%2Fb", r.URL.EscapedPath())

		_, _ = w.Write([]byte(`{"id":"a/b","name":"n","description":"d","parameters":[{"key":"k","type":"int","values":[1,2]}]}`))
	})

	cfg, err := c.GetConfig(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", cfg.ID)
	assert.Equal(t, []models.Value{int64(1), int64(2)}, cfg.Parameters[0].Values)
}

func TestGetConfigNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetConfig(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestListRecent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require := require.New(t)
		require.Equal("/configs/recent", r.URL.Path)
		require.Equal("5", r.URL.Query().Get("limit"))

		_, _ = w.Write([]byte(`[{"id":"1","config":{"name":"a","description":"b","parameters":[]}}]`))
	})

	recent, err := c.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "1", recent[0].ID)
	assert.Equal(t, "a", recent[0].Config.Name)
}

func TestPingUsesRequestIDFromContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		require.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"message":"Hello from the backend"}`))
	})

	g, err := c.Ping(WithRequestID(context.Background(), "req-1"))
	require.NoError(t, err)
	assert.Equal(t, "Hello from the backend", g.Message)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost:53045"})
	assert.Error(t, err)

	c, err := NewSweepClient("http://localhost:53045/", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:53045", c.BaseURL())
}
