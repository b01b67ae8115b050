package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/picogrid/param-sweep/pkg/models"
)

// CreateConfig stores a configuration and returns the backend-assigned ID.
// Any ID already on cfg is not sent.
func (c *Client) CreateConfig(ctx context.Context, cfg *models.Configuration) (*models.SaveResponse, error) {
	body := cfg.Clone()
	body.ID = ""

	resp, err := c.doRequest(ctx, http.MethodPost, "/configs", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}

	var saved models.SaveResponse
	if err := decodeResponse(resp, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode save response: %w", err)
	}
	if saved.ID == "" {
		return nil, fmt.Errorf("failed to create config: response carried no id")
	}

	return &saved, nil
}

// GetConfig retrieves a configuration by ID
func (c *Client) GetConfig(ctx context.Context, id string) (*models.Configuration, error) {
	pathID, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return nil, fmt.Errorf("invalid config id %q: %w", id, err)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/configs/"+pathID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	var cfg models.Configuration
	if err := decodeResponse(resp, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config response: %w", err)
	}
	cfg.Normalize()
	if cfg.ID == "" {
		cfg.ID = id
	}

	return &cfg, nil
}

// ListRecent returns the most recently saved configurations. A limit of zero
// leaves the page size to the backend.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]models.RecentConfig, error) {
	path := "/configs/recent"
	if limit > 0 {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		path += "?" + q.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent configs: %w", err)
	}

	var recent []models.RecentConfig
	if err := decodeResponse(resp, &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent configs: %w", err)
	}
	for i := range recent {
		recent[i].Config.Normalize()
	}

	return recent, nil
}
