package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/param-sweep/pkg/gateway"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/sweep"
)

type fakeSaver struct {
	calls int
	got   *models.Configuration
}

func (s *fakeSaver) Save(_ context.Context, cfg *models.Configuration) (*models.Configuration, error) {
	s.calls++
	s.got = cfg
	out := cfg.WithID("99")
	return &out, nil
}

func TestAddAndRemoveKeepOtherDrafts(t *testing.T) {
	f := New()
	a, b, c := f.Add(), f.Add(), f.Add()
	require.NotEqual(t, a, b)

	require.NoError(t, f.SetKey(a, "alpha"))
	require.NoError(t, f.SetRaw(a, "1,2"))
	require.NoError(t, f.Commit(a))

	require.NoError(t, f.SetKey(c, "gamma"))
	require.NoError(t, f.SetType(c, models.ParamInt))
	require.NoError(t, f.SetRaw(c, "x"))
	require.Error(t, f.Commit(c))

	assert.True(t, f.Remove(b))
	assert.False(t, f.Remove(b))
	assert.Equal(t, []string{a, c}, f.IDs())

	da, ok := f.Draft(a)
	require.True(t, ok)
	assert.Equal(t, "alpha", da.Key)
	assert.Equal(t, []models.Value{1.0, 2.0}, da.Values)

	dc, ok := f.Draft(c)
	require.True(t, ok)
	assert.Equal(t, "gamma", dc.Key)
	assert.Equal(t, sweep.MsgInteger, dc.Err)
}

func TestCommitFailureKeepsPriorValues(t *testing.T) {
	f := New()
	id := f.Add()
	require.NoError(t, f.SetType(id, models.ParamInt))
	require.NoError(t, f.SetRaw(id, "1,2,3"))
	require.NoError(t, f.Commit(id))

	require.NoError(t, f.SetRaw(id, "1,2.5"))
	err := f.Commit(id)
	require.Error(t, err)
	assert.Equal(t, "Must be an integer", err.Error())

	d, _ := f.Draft(id)
	assert.Equal(t, []models.Value{int64(1), int64(2), int64(3)}, d.Values)
	assert.Equal(t, "Must be an integer", d.Err)

	require.NoError(t, f.SetRaw(id, "4"))
	d, _ = f.Draft(id)
	assert.Empty(t, d.Err, "editing clears the error")
}

func TestGenerate(t *testing.T) {
	f := New()
	id := f.Add()

	enabled, err := f.ToggleGenerator(id)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, f.SetGenerator(id, "0", "10", "5", ""))
	list, err := f.Generate(id)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 10}, list)

	d, _ := f.Draft(id)
	assert.Equal(t, "0,5,10", d.Raw)
	assert.Equal(t, []models.Value{0.0, 5.0, 10.0}, d.Values)

	require.NoError(t, f.SetGenerator(id, "0", "1", "0", ""))
	_, err = f.Generate(id)
	require.Error(t, err)
	assert.Equal(t, sweep.MsgInvalidRange, err.Error())

	d, _ = f.Draft(id)
	assert.Equal(t, "0,5,10", d.Raw, "failed generation leaves the draft alone")
}

func TestGenerateRespectsParameterType(t *testing.T) {
	f := New()
	f.Name, f.Description = "n", "d"

	enum := f.Add()
	require.NoError(t, f.SetKey(enum, "mode"))
	require.NoError(t, f.SetType(enum, models.ParamEnum))
	require.NoError(t, f.SetGenerator(enum, "0", "1", "0.5", ""))
	_, err := f.Generate(enum)
	require.Error(t, err)
	assert.Equal(t, sweep.MsgNotNumeric, err.Error())
	d, _ := f.Draft(enum)
	assert.Empty(t, d.Values)

	count := f.Add()
	require.NoError(t, f.SetKey(count, "count"))
	require.NoError(t, f.SetType(count, models.ParamInt))
	require.NoError(t, f.SetGenerator(count, "0", "1", "0.5", ""))
	_, err = f.Generate(count)
	require.Error(t, err)
	assert.Equal(t, sweep.MsgInteger, err.Error())
	d, _ = f.Draft(count)
	assert.Equal(t, sweep.MsgInteger, d.Err)
	assert.Empty(t, d.Values)

	require.NoError(t, f.SetGenerator(count, "0", "10", "5", ""))
	_, err = f.Generate(count)
	require.NoError(t, err)
	d, _ = f.Draft(count)
	assert.Empty(t, d.Err)
	assert.Equal(t, []models.Value{int64(0), int64(5), int64(10)}, d.Parameter().Values)
}

func TestBuildRejectsNonConformingValues(t *testing.T) {
	f := New()
	f.Name, f.Description = "n", "d"

	id := f.Add()
	require.NoError(t, f.SetKey(id, "count"))
	require.NoError(t, f.SetRaw(id, "0,0.5,1"))
	require.NoError(t, f.Commit(id))
	require.NoError(t, f.SetType(id, models.ParamInt))

	_, err := f.Build()
	var verr *gateway.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, `Parameter "count": Must be an integer`, verr.Msg)

	require.NoError(t, f.SetType(id, models.ParamEnum))
	_, err = f.Build()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, `Parameter "count": Must be a string`, verr.Msg)

	require.NoError(t, f.SetType(id, models.ParamFloat))
	cfg, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, []models.Value{0.0, 0.5, 1.0}, cfg.Parameters[0].Values)
}

func TestBuildPreconditions(t *testing.T) {
	f := New()
	_, err := f.Build()
	assert.Equal(t, gateway.MsgNameRequired, err.Error())

	f.Name = "n"
	_, err = f.Build()
	assert.Equal(t, gateway.MsgDescriptionRequired, err.Error())

	f.Description = "d"
	_, err = f.Build()
	assert.Equal(t, gateway.MsgParametersRequired, err.Error())

	id := f.Add()
	require.NoError(t, f.SetKey(id, "lr"))
	_, err = f.Build()
	var verr *gateway.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, `Parameter "lr" has no values`, verr.Msg)
}

func TestSave(t *testing.T) {
	f := New()
	f.Name = "grid"
	f.Description = "two params"

	lr := f.Add()
	require.NoError(t, f.SetKey(lr, "lr"))
	require.NoError(t, f.SetRaw(lr, "0.1, 0.01"))
	require.NoError(t, f.Commit(lr))

	layers := f.Add()
	require.NoError(t, f.SetKey(layers, "layers"))
	require.NoError(t, f.SetType(layers, models.ParamInt))
	require.NoError(t, f.SetGenerator(layers, "2", "6", "2", ""))
	_, err := f.Generate(layers)
	require.NoError(t, err)

	s := &fakeSaver{}
	saved, err := f.Save(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "99", saved.ID)
	assert.Equal(t, []string{"lr", "layers"}, saved.Keys())
	assert.Equal(t, []models.Value{int64(2), int64(4), int64(6)}, saved.Parameters[1].Values)

	last, ok := f.Saved()
	require.True(t, ok)
	assert.Equal(t, saved, last)
}

func TestSaveDoesNotCallSaverOnBuildFailure(t *testing.T) {
	s := &fakeSaver{}
	_, err := New().Save(context.Background(), s)
	require.Error(t, err)
	assert.Zero(t, s.calls)
}

func TestFromConfigRoundTrip(t *testing.T) {
	cfg := &models.Configuration{
		Name:        "n",
		Description: "d",
		Parameters: []models.Parameter{
			{Key: "mode", Type: models.ParamEnum, Values: []models.Value{"a", "b"}},
		},
	}
	f := FromConfig(cfg)
	require.Equal(t, 1, f.Len())

	d := f.Drafts()[0]
	assert.Equal(t, "a,b", d.Raw)
	assert.Equal(t, "mode [enum] a,b", d.Summary())

	built, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, cfg, built)
}

func TestUnknownDraft(t *testing.T) {
	f := New()
	assert.True(t, errors.Is(f.SetKey("nope", "k"), ErrUnknownDraft))
	assert.True(t, errors.Is(f.Commit("nope"), ErrUnknownDraft))
	_, err := f.Generate("nope")
	assert.True(t, errors.Is(err, ErrUnknownDraft))
}
