package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/param-sweep/pkg/client"
	"github.com/picogrid/param-sweep/pkg/models"
)

type fakeAPI struct {
	creates int
	gets    []string
	fail    map[string]error
}

func (f *fakeAPI) CreateConfig(_ context.Context, _ *models.Configuration) (*models.SaveResponse, error) {
	f.creates++
	return &models.SaveResponse{ID: "new-id"}, nil
}

func (f *fakeAPI) GetConfig(_ context.Context, id string) (*models.Configuration, error) {
	f.gets = append(f.gets, id)
	if err := f.fail[id]; err != nil {
		return nil, err
	}
	return &models.Configuration{ID: id, Name: "cfg " + id, Description: "d"}, nil
}

func (f *fakeAPI) ListRecent(_ context.Context, _ int) ([]models.RecentConfig, error) {
	return []models.RecentConfig{{ID: "r1"}}, nil
}

type fakeRecorder struct {
	ids []string
}

func (r *fakeRecorder) Record(_ context.Context, cfg models.Configuration) error {
	r.ids = append(r.ids, cfg.ID)
	return nil
}

func validConfig() *models.Configuration {
	return &models.Configuration{
		Name:        "sweep",
		Description: "batch size sweep",
		Parameters: []models.Parameter{
			{Key: "batch", Type: models.ParamInt, Values: []models.Value{int64(16), int64(32)}},
		},
	}
}

func TestSaveValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*models.Configuration)
		msg    string
	}{
		{"blank_name", func(c *models.Configuration) { c.Name = "   " }, MsgNameRequired},
		{"blank_description", func(c *models.Configuration) { c.Description = "" }, MsgDescriptionRequired},
		{"no_parameters", func(c *models.Configuration) { c.Parameters = nil }, MsgParametersRequired},
		{"name_checked_first", func(c *models.Configuration) { c.Name = ""; c.Parameters = nil }, MsgNameRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			notes := &MemoryNotifier{}
			gw := New(api, notes, nil)

			cfg := validConfig()
			tc.mutate(cfg)
			saved, err := gw.Save(context.Background(), cfg)

			require.Error(t, err)
			assert.Nil(t, saved)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.msg, verr.Msg)
			assert.Zero(t, api.creates, "validation failures must not reach the network")

			last, ok := notes.Last()
			require.True(t, ok)
			assert.Equal(t, Notification{Level: "error", Msg: tc.msg}, last)
		})
	}
}

func TestSaveBlankNameMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c, err := client.NewClient(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	cfg := validConfig()
	cfg.Name = ""
	_, err = New(c, &MemoryNotifier{}, nil).Save(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, "Name is required", err.Error())
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSaveAgainstBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/configs", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"12345"}`))
	}))
	defer srv.Close()

	c, err := client.NewClient(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	notes := &MemoryNotifier{}
	rec := &fakeRecorder{}
	in := validConfig()
	saved, err := New(c, notes, rec).Save(context.Background(), in)
	require.NoError(t, err)

	want := validConfig()
	want.ID = "12345"
	assert.Equal(t, want, saved)
	assert.Empty(t, in.ID, "input must not be mutated")

	last, _ := notes.Last()
	assert.Equal(t, "success", last.Level)
	assert.Contains(t, last.Msg, "12345")
	assert.Equal(t, []string{"12345"}, rec.ids)
}

func TestSaveSurfacesBackendBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("database unavailable"))
	}))
	defer srv.Close()

	c, err := client.NewClient(client.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	notes := &MemoryNotifier{}
	saved, err := New(c, notes, nil).Save(context.Background(), validConfig())
	require.Error(t, err)
	assert.Nil(t, saved)

	last, _ := notes.Last()
	assert.Equal(t, Notification{Level: "error", Msg: "Error saving config: database unavailable"}, last)
}

func TestSaveSurfacesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := client.NewClient(client.Config{BaseURL: url})
	require.NoError(t, err)

	notes := &MemoryNotifier{}
	saved, err := New(c, notes, nil).Save(context.Background(), validConfig())
	require.Error(t, err)
	assert.Nil(t, saved)

	last, _ := notes.Last()
	assert.True(t, strings.HasPrefix(last.Msg, "Error saving config: "), last.Msg)
	assert.Contains(t, last.Msg, "request failed")
}

func TestLoadByIDsAbortsOnFirstFailure(t *testing.T) {
	cause := errors.New("not found")
	api := &fakeAPI{fail: map[string]error{"b": cause}}
	notes := &MemoryNotifier{}
	rec := &fakeRecorder{}

	got, err := New(api, notes, rec).LoadByIDs(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Nil(t, got, "partial results must be discarded")
	assert.Contains(t, err.Error(), "b")
	assert.True(t, errors.Is(err, cause))

	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "b", ferr.ID)

	assert.Equal(t, []string{"a", "b"}, api.gets, "fetch stops at the failing id")
	assert.Empty(t, rec.ids)

	last, _ := notes.Last()
	assert.Equal(t, "Failed to fetch ID b", last.Msg)
}

func TestLoadByIDs(t *testing.T) {
	api := &fakeAPI{}
	notes := &MemoryNotifier{}
	rec := &fakeRecorder{}

	got, err := New(api, notes, rec).Load(context.Background(), " a , ,b")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, []string{"a", "b"}, rec.ids)

	last, _ := notes.Last()
	assert.Equal(t, Notification{Level: "success", Msg: "Loaded 2 config(s)"}, last)
}

func TestLoadRequiresIDs(t *testing.T) {
	api := &fakeAPI{}
	notes := &MemoryNotifier{}
	_, err := New(api, notes, nil).Load(context.Background(), " , ")
	require.Error(t, err)
	assert.Equal(t, MsgIDsRequired, err.Error())
	assert.Empty(t, api.gets)
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "abc"}, ParseIDList("1, 2,,abc ,"))
	assert.Nil(t, ParseIDList(""))
}

func TestRecent(t *testing.T) {
	got, err := New(&fakeAPI{}, nil, nil).Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}
