// Package form holds the editable state behind the interactive configuration
// form: a name, a description and an ordered list of parameter drafts, each
// keyed by a stable identifier so removing one never disturbs another.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/picogrid/param-sweep/pkg/gateway"
	"github.com/picogrid/param-sweep/pkg/models"
	"github.com/picogrid/param-sweep/pkg/sweep"
)

// ErrUnknownDraft is returned for an identifier that is not in the form.
var ErrUnknownDraft = errors.New("unknown parameter draft")

// Generator holds the raw generator fields of a draft.
type Generator struct {
	Enabled bool
	Start   string
	End     string
	Step    string
	Formula string
}

// Draft is the transient state of one parameter row.
type Draft struct {
	ID        string
	Key       string
	Type      models.ParamType
	Raw       string
	Values    []models.Value
	Err       string
	Generator Generator
}

// Parameter returns the committed parameter for this draft.
func (d *Draft) Parameter() models.Parameter {
	p := models.Parameter{
		Key:    d.Key,
		Type:   d.Type,
		Values: append([]models.Value(nil), d.Values...),
	}
	p.Normalize()
	return p
}

// Saver persists a built configuration.
type Saver interface {
	Save(ctx context.Context, cfg *models.Configuration) (*models.Configuration, error)
}

// Form is the editable configuration. It is not safe for concurrent use.
type Form struct {
	Name        string
	Description string

	order  []string
	drafts map[string]*Draft
	saved  *models.Configuration
}

// New creates an empty form.
func New() *Form {
	return &Form{drafts: make(map[string]*Draft)}
}

// FromConfig creates a form pre-filled with cfg's parameters.
func FromConfig(cfg *models.Configuration) *Form {
	f := New()
	f.Name = cfg.Name
	f.Description = cfg.Description
	for _, p := range cfg.Parameters {
		id := f.Add()
		d := f.drafts[id]
		d.Key = p.Key
		d.Type = p.Type
		d.Values = append([]models.Value(nil), p.Values...)
		d.Raw = models.FormatValues(p.Values)
	}
	return f
}

// Add appends an empty float draft and returns its identifier.
func (f *Form) Add() string {
	id := uuid.NewString()
	f.order = append(f.order, id)
	f.drafts[id] = &Draft{ID: id, Type: models.ParamFloat}
	return id
}

// Remove deletes the draft with id and reports whether it existed.
func (f *Form) Remove(id string) bool {
	if _, ok := f.drafts[id]; !ok {
		return false
	}
	delete(f.drafts, id)
	for i, other := range f.order {
		if other == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of drafts.
func (f *Form) Len() int { return len(f.order) }

// IDs returns the draft identifiers in display order.
func (f *Form) IDs() []string { return append([]string(nil), f.order...) }

// Draft returns a copy of the draft with id.
func (f *Form) Draft(id string) (Draft, bool) {
	d, ok := f.drafts[id]
	if !ok {
		return Draft{}, false
	}
	out := *d
	out.Values = append([]models.Value(nil), d.Values...)
	return out, true
}

// Drafts returns copies of all drafts in display order.
func (f *Form) Drafts() []Draft {
	out := make([]Draft, 0, len(f.order))
	for _, id := range f.order {
		d, _ := f.Draft(id)
		out = append(out, d)
	}
	return out
}

func (f *Form) get(id string) (*Draft, error) {
	d, ok := f.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDraft, id)
	}
	return d, nil
}

// SetKey sets the parameter key.
func (f *Form) SetKey(id, key string) error {
	d, err := f.get(id)
	if err != nil {
		return err
	}
	d.Key = key
	return nil
}

// SetType sets the declared type. Committed values are not re-validated.
func (f *Form) SetType(id string, typ models.ParamType) error {
	d, err := f.get(id)
	if err != nil {
		return err
	}
	if !typ.Valid() {
		return fmt.Errorf("unsupported type %q", string(typ))
	}
	d.Type = typ
	return nil
}

// SetRaw replaces the raw values text and clears the draft error.
func (f *Form) SetRaw(id, raw string) error {
	d, err := f.get(id)
	if err != nil {
		return err
	}
	d.Raw = raw
	d.Err = ""
	return nil
}

// Commit parses the raw text into values. On failure the error is stored on
// the draft and the previously committed values are kept.
func (f *Form) Commit(id string) error {
	d, err := f.get(id)
	if err != nil {
		return err
	}
	values, err := sweep.ParseValues(d.Raw, d.Type)
	if err != nil {
		d.Err = err.Error()
		return err
	}
	d.Values = values
	d.Err = ""
	return nil
}

// ToggleGenerator flips whether the generator fields are in use and returns
// the new setting.
func (f *Form) ToggleGenerator(id string) (bool, error) {
	d, err := f.get(id)
	if err != nil {
		return false, err
	}
	d.Generator.Enabled = !d.Generator.Enabled
	return d.Generator.Enabled, nil
}

// SetGenerator stores the raw generator fields.
func (f *Form) SetGenerator(id, start, end, step, formula string) error {
	d, err := f.get(id)
	if err != nil {
		return err
	}
	d.Generator.Start = start
	d.Generator.End = end
	d.Generator.Step = step
	d.Generator.Formula = formula
	return nil
}

// Generate runs the generator and, on success, replaces both the committed
// values and the raw text. A failure leaves the values unchanged; results
// that do not fit an int parameter are stored as the draft error.
func (f *Form) Generate(id string) ([]float64, error) {
	d, err := f.get(id)
	if err != nil {
		return nil, err
	}
	if !d.Type.Numeric() {
		return nil, &sweep.GenerationError{Msg: sweep.MsgNotNumeric}
	}
	g := d.Generator
	list, err := sweep.Generate(sweep.ParseRange(g.Start, g.End, g.Step, g.Formula))
	if err != nil {
		return nil, err
	}
	if err := sweep.Conform(sweep.FloatValues(list), d.Type); err != nil {
		d.Err = err.Error()
		return nil, err
	}
	d.Raw = sweep.JoinFloats(list)
	d.Values = sweep.FloatValues(list)
	d.Err = ""
	return list, nil
}

// Build assembles the configuration, checking the same preconditions as a
// save plus a non-empty, type-conforming value list for every parameter.
func (f *Form) Build() (*models.Configuration, error) {
	cfg := &models.Configuration{
		Name:        f.Name,
		Description: f.Description,
		Parameters:  make([]models.Parameter, 0, len(f.order)),
	}
	for _, id := range f.order {
		cfg.Parameters = append(cfg.Parameters, f.drafts[id].Parameter())
	}

	if err := gateway.Validate(cfg); err != nil {
		return nil, err
	}
	for _, p := range cfg.Parameters {
		if len(p.Values) == 0 {
			return nil, &gateway.ValidationError{Msg: fmt.Sprintf("Parameter %q has no values", p.Key)}
		}
		if err := sweep.Conform(p.Values, p.Type); err != nil {
			return nil, &gateway.ValidationError{Msg: fmt.Sprintf("Parameter %q: %s", p.Key, err.Error())}
		}
	}
	return cfg, nil
}

// Save builds the configuration and hands it to s. The saved copy, carrying
// its ID, is kept on the form.
func (f *Form) Save(ctx context.Context, s Saver) (*models.Configuration, error) {
	cfg, err := f.Build()
	if err != nil {
		return nil, err
	}
	saved, err := s.Save(ctx, cfg)
	if err != nil {
		return nil, err
	}
	f.saved = saved
	return saved, nil
}

// Saved returns the last successfully saved configuration.
func (f *Form) Saved() (*models.Configuration, bool) {
	return f.saved, f.saved != nil
}

// Summary is a one-line description of the draft for menus.
func (d *Draft) Summary() string {
	key := strings.TrimSpace(d.Key)
	if key == "" {
		key = "(no key)"
	}
	values := models.FormatValues(d.Values)
	if values == "" {
		values = "no values"
	}
	return fmt.Sprintf("%s [%s] %s", key, d.Type, values)
}
