package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBackendPort is used when BACKEND_PORT is not set anywhere.
const DefaultBackendPort = "53045"

// Source names where a resolved URL came from.
type Source string

const (
	SourceFlag        Source = "flag"
	SourceEnvVar      Source = "SWEEP_URL"
	SourceEnvironment Source = "environment"
	SourceBackendPort Source = "BACKEND_PORT"
	SourceDefault     Source = "default"
)

// Inputs carries every place a backend address may be configured.
type Inputs struct {
	// FlagURL is the --url flag.
	FlagURL string
	// EnvURL is SWEEP_URL (or url in the config file).
	EnvURL string
	// EnvName selects a named environment (--env).
	EnvName string
	// Environments is the loaded environments file, if any.
	Environments *Config
	// BackendPort is BACKEND_PORT from the process or .env files.
	BackendPort string
}

// Endpoint is a resolved backend.
type Endpoint struct {
	HTTP   string
	WS     string
	Source Source

	// APIKeyEnv names the environment variable holding the API key, as
	// stored in the environments file.
	APIKeyEnv string
}

// LocalURL returns the local backend address for port.
func LocalURL(port string) string {
	return "http://localhost:" + port
}

// Resolve picks the backend address. Precedence: --url, SWEEP_URL, the
// named environment, BACKEND_PORT, then the default local port.
func Resolve(in Inputs) (*Endpoint, error) {
	var (
		raw       string
		apiKeyEnv string
		src       Source
	)

	switch {
	case strings.TrimSpace(in.FlagURL) != "":
		raw, src = in.FlagURL, SourceFlag
	case strings.TrimSpace(in.EnvURL) != "":
		raw, src = in.EnvURL, SourceEnvVar
	case in.EnvName != "":
		if in.Environments == nil {
			return nil, fmt.Errorf("environment %s not found", in.EnvName)
		}
		env, ok := in.Environments.Find(in.EnvName)
		if !ok {
			return nil, fmt.Errorf("environment %s not found", in.EnvName)
		}
		raw, apiKeyEnv, src = env.URL, env.APIKey, SourceEnvironment
	case strings.TrimSpace(in.BackendPort) != "":
		raw, src = LocalURL(strings.TrimSpace(in.BackendPort)), SourceBackendPort
	default:
		raw, src = LocalURL(DefaultBackendPort), SourceDefault
	}

	httpURL, err := NormalizeURL(raw)
	if err != nil {
		return nil, err
	}
	wsURL, err := WebSocketURL(httpURL)
	if err != nil {
		return nil, err
	}
	return &Endpoint{HTTP: httpURL, WS: wsURL, Source: src, APIKeyEnv: apiKeyEnv}, nil
}

// NormalizeURL validates an http(s) address and strips trailing slashes.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid backend URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q: expected http(s)://host[:port]", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// WebSocketURL derives the streaming base from an http(s) base.
func WebSocketURL(httpURL string) (string, error) {
	u, err := url.Parse(httpURL)
	if err != nil {
		return "", fmt.Errorf("invalid backend URL %q: %w", httpURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid backend URL %q: expected http or https", httpURL)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
