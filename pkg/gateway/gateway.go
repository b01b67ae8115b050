// Package gateway validates configurations locally and moves them to and
// from the backend, reporting each outcome through a Notifier.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/picogrid/param-sweep/pkg/client"
	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

// Validation messages. Each is checked before any network call.
const (
	MsgNameRequired        = "Name is required"
	MsgDescriptionRequired = "Description is required"
	MsgParametersRequired  = "At least one parameter is required"
	MsgIDsRequired         = "Please enter at least one ID"
)

// ConfigAPI is the subset of the backend client the gateway needs.
type ConfigAPI interface {
	CreateConfig(ctx context.Context, cfg *models.Configuration) (*models.SaveResponse, error)
	GetConfig(ctx context.Context, id string) (*models.Configuration, error)
	ListRecent(ctx context.Context, limit int) ([]models.RecentConfig, error)
}

// Notifier receives the transient messages shown to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Recorder keeps a local copy of configurations that were saved or loaded.
type Recorder interface {
	Record(ctx context.Context, cfg models.Configuration) error
}

// ValidationError is a local precondition failure. No request was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// FetchError names the ID whose fetch aborted a load.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch ID %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Gateway is the persistence boundary for configurations.
type Gateway struct {
	api      ConfigAPI
	notify   Notifier
	recorder Recorder
}

// New creates a gateway. A nil notifier logs through the package logger; a
// nil recorder disables local history.
func New(api ConfigAPI, notify Notifier, recorder Recorder) *Gateway {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Gateway{api: api, notify: notify, recorder: recorder}
}

// Validate checks the local preconditions for saving, in order.
func Validate(cfg *models.Configuration) error {
	switch {
	case strings.TrimSpace(cfg.Name) == "":
		return &ValidationError{Msg: MsgNameRequired}
	case strings.TrimSpace(cfg.Description) == "":
		return &ValidationError{Msg: MsgDescriptionRequired}
	case len(cfg.Parameters) == 0:
		return &ValidationError{Msg: MsgParametersRequired}
	}
	return nil
}

// Save validates cfg and stores it. On success it returns a copy of cfg
// carrying the backend-assigned ID; on any failure it returns nil.
func (g *Gateway) Save(ctx context.Context, cfg *models.Configuration) (*models.Configuration, error) {
	if err := Validate(cfg); err != nil {
		g.notify.Error(err.Error())
		return nil, err
	}

	resp, err := g.api.CreateConfig(ctx, cfg)
	if err != nil {
		detail := errorDetail(err)
		g.notify.Error("Error saving config: " + detail)
		return nil, fmt.Errorf("error saving config: %w", err)
	}

	saved := cfg.WithID(resp.ID)
	g.notify.Success("Saved config with ID: " + resp.ID)
	g.record(ctx, saved)
	return &saved, nil
}

// LoadByIDs fetches each ID in order. The first failure aborts the rest and
// nothing fetched so far is returned.
func (g *Gateway) LoadByIDs(ctx context.Context, ids []string) ([]models.Configuration, error) {
	if len(ids) == 0 {
		g.notify.Error(MsgIDsRequired)
		return nil, &ValidationError{Msg: MsgIDsRequired}
	}

	out := make([]models.Configuration, 0, len(ids))
	for _, id := range ids {
		cfg, err := g.api.GetConfig(ctx, id)
		if err != nil {
			ferr := &FetchError{ID: id, Err: err}
			g.notify.Error("Failed to fetch ID " + id)
			return nil, ferr
		}
		out = append(out, *cfg)
	}

	for _, cfg := range out {
		g.record(ctx, cfg)
	}
	g.notify.Success(fmt.Sprintf("Loaded %d config(s)", len(out)))
	return out, nil
}

// Load parses a comma-separated ID list and loads it.
func (g *Gateway) Load(ctx context.Context, raw string) ([]models.Configuration, error) {
	return g.LoadByIDs(ctx, ParseIDList(raw))
}

// Recent lists recently saved configurations.
func (g *Gateway) Recent(ctx context.Context, limit int) ([]models.RecentConfig, error) {
	recent, err := g.api.ListRecent(ctx, limit)
	if err != nil {
		g.notify.Error("Error fetching recent configs: " + errorDetail(err))
		return nil, err
	}
	return recent, nil
}

func (g *Gateway) record(ctx context.Context, cfg models.Configuration) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Record(ctx, cfg); err != nil {
		logger.Warnf("Failed to record config %s in history: %v", cfg.DisplayName(), err)
	}
}

// ParseIDList splits raw on commas, trims each entry and drops blanks.
func ParseIDList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// errorDetail prefers the backend's response body over the wrapped chain.
func errorDetail(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
