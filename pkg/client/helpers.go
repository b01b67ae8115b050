package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Greeting is the body of the backend root endpoint
type Greeting struct {
	Message string `json:"message"`
}

// NewSweepClient creates a new client with API key authentication
// This is a convenience wrapper around NewClient
func NewSweepClient(baseURL string, apiKey string, timeout time.Duration) (*Client, error) {
	cfg := Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: timeout,
	}

	return NewClient(cfg)
}

// GetAPIKey retrieves the API key from an environment variable
func GetAPIKey(envVarName string) string {
	if envVarName == "" {
		return ""
	}
	return os.Getenv(envVarName)
}

// Ping calls the backend root endpoint and returns its greeting
func (c *Client) Ping(ctx context.Context) (*Greeting, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, fmt.Errorf("connection validation failed: %w", err)
	}

	var g Greeting
	if err := decodeResponse(resp, &g); err != nil {
		return nil, fmt.Errorf("failed to decode greeting: %w", err)
	}
	return &g, nil
}
