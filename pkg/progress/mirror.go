// Package progress mirrors the execution state of saved configurations from
// the backend's WebSocket stream.
package progress

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

// Handler receives every snapshot for one configuration.
type Handler func(id string, state models.ProgressState)

// snapshot is the wire form; viewers is optional.
type snapshot struct {
	Progress float64 `json:"progress"`
	State    string  `json:"state"`
	Viewers  int     `json:"viewers"`
}

func (s snapshot) state() models.ProgressState {
	viewers := s.Viewers
	if viewers == 0 {
		viewers = 1
	}
	return models.ProgressState{Progress: s.Progress, State: s.State, Viewers: viewers}
}

// Mirror opens one stream per configuration ID. There is no reconnect: a
// dropped connection ends the watch.
type Mirror struct {
	base string
}

// NewMirror creates a mirror for the given ws:// or wss:// base URL.
func NewMirror(wsBase string) (*Mirror, error) {
	u, err := url.Parse(wsBase)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid websocket URL %q: scheme must be ws or wss", wsBase)
	}
	return &Mirror{base: strings.TrimRight(u.String(), "/")}, nil
}

// URL returns the stream address for id.
func (m *Mirror) URL(id string) string {
	return m.base + "/ws/configs/" + url.PathEscape(id)
}

// Watch streams snapshots for id until the server closes the connection or
// ctx is cancelled. Each snapshot replaces the previous state. The client
// never sends messages.
func (m *Mirror) Watch(ctx context.Context, id string, fn Handler) error {
	log := logger.WithField("id", id)

	conn, _, err := websocket.Dial(ctx, m.URL(id), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect progress stream for %s: %w", id, err)
	}
	defer conn.CloseNow()
	log.Debug("Progress stream connected")

	for {
		var snap snapshot
		err := wsjson.Read(ctx, conn, &snap)
		if err != nil {
			if ctx.Err() != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				log.Debug("Progress stream closed by server")
				return nil
			}
			return fmt.Errorf("progress stream for %s: %w", id, err)
		}
		fn(id, snap.state())
	}
}

// WatchAll watches every id on its own connection. The first failing stream
// cancels the others.
func (m *Mirror) WatchAll(ctx context.Context, ids []string, fn Handler) error {
	if len(ids) == 0 {
		return errors.New("no configuration IDs to watch")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return m.Watch(ctx, id, fn)
		})
	}
	return g.Wait()
}
