package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentsDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadEnvironmentsFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Environments, 1)
	assert.Equal(t, "http://localhost:53045", cfg.Environments[0].URL)
}

func TestSaveAndLoadEnvironments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "environments.yaml")
	cfg := &Config{}
	require.NoError(t, cfg.Add(Environment{Name: "Staging", URL: "https://sweep.staging.example.com", APIKey: "STAGING_KEY"}))
	require.NoError(t, SaveEnvironmentsToFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_key: STAGING_KEY")

	loaded, err := LoadEnvironmentsFromFile(path)
	require.NoError(t, err)
	env, ok := loaded.Find("staging")
	require.True(t, ok)
	assert.Equal(t, "Staging", env.Name)
}

func TestAddAndRemove(t *testing.T) {
	cfg := getDefaultConfig()
	assert.Error(t, cfg.Add(Environment{Name: "local", URL: "http://x"}), "duplicate name")
	assert.Error(t, cfg.Add(Environment{Name: "bad", URL: "localhost:1"}), "missing scheme")
	assert.Error(t, cfg.Add(Environment{Name: " ", URL: "http://x"}))

	assert.True(t, cfg.Remove("LOCAL"))
	assert.Empty(t, cfg.Selected)
	assert.False(t, cfg.Remove("LOCAL"))
}

func TestResolvePrecedence(t *testing.T) {
	envs := &Config{Environments: []Environment{{Name: "prod", URL: "https://sweep.example.com/", APIKey: "PROD_SWEEP_KEY"}}}

	testCases := []struct {
		name   string
		in     Inputs
		http   string
		ws     string
		source Source
	}{
		{"default", Inputs{}, "http://localhost:53045", "ws://localhost:53045", SourceDefault},
		{"backend_port", Inputs{BackendPort: "8080"}, "http://localhost:8080", "ws://localhost:8080", SourceBackendPort},
		{"named_env", Inputs{EnvName: "prod", Environments: envs, BackendPort: "8080"}, "https://sweep.example.com", "wss://sweep.example.com", SourceEnvironment},
		{"env_var", Inputs{EnvURL: "http://10.0.0.5:9000", EnvName: "prod", Environments: envs}, "http://10.0.0.5:9000", "ws://10.0.0.5:9000", SourceEnvVar},
		{"flag", Inputs{FlagURL: "http://flag:1/", EnvURL: "http://env:2"}, "http://flag:1", "ws://flag:1", SourceFlag},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ep, err := Resolve(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.http, ep.HTTP)
			assert.Equal(t, tc.ws, ep.WS)
			assert.Equal(t, tc.source, ep.Source)
		})
	}

	ep, err := Resolve(Inputs{EnvName: "prod", Environments: envs})
	require.NoError(t, err)
	assert.Equal(t, "PROD_SWEEP_KEY", ep.APIKeyEnv)
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve(Inputs{EnvName: "nope", Environments: &Config{}})
	assert.Error(t, err)

	_, err = Resolve(Inputs{FlagURL: "ftp://host"})
	assert.Error(t, err)
}

func TestWebSocketURL(t *testing.T) {
	ws, err := WebSocketURL("https://host:443/api")
	require.NoError(t, err)
	assert.Equal(t, "wss://host:443/api", ws)

	_, err = WebSocketURL("ws://host")
	assert.Error(t, err)
}
