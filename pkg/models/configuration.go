package models

import (
	"fmt"
	"strings"
)

// ParamType is the declared element type of a parameter's values.
type ParamType string

const (
	ParamFloat ParamType = "float"
	ParamInt   ParamType = "int"
	ParamEnum  ParamType = "enum"
)

// ParamTypes lists the supported parameter types in display order.
var ParamTypes = []ParamType{ParamFloat, ParamInt, ParamEnum}

// Valid reports whether t is one of the supported types.
func (t ParamType) Valid() bool {
	switch t {
	case ParamFloat, ParamInt, ParamEnum:
		return true
	}
	return false
}

// Numeric reports whether values of this type are numbers.
func (t ParamType) Numeric() bool {
	return t == ParamFloat || t == ParamInt
}

// Value is a single parameter value: float64 for float, int64 for int and
// string for enum. Values decoded from JSON arrive as float64 until
// Normalize is called.
type Value = interface{}

// Parameter is a key with a declared type and an ordered list of values.
type Parameter struct {
	Key    string    `json:"key" yaml:"key"`
	Type   ParamType `json:"type" yaml:"type"`
	Values []Value   `json:"values" yaml:"values"`
}

// Configuration is a named, described collection of parameters to sweep.
type Configuration struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
}

// SaveResponse is returned by the backend after a configuration is stored.
type SaveResponse struct {
	ID string `json:"id"`
}

// RecentConfig is one entry of the recent configurations listing.
type RecentConfig struct {
	ID     string        `json:"id"`
	Config Configuration `json:"config"`
}

// ProgressState mirrors the execution state reported for a configuration.
type ProgressState struct {
	Progress float64 `json:"progress"`
	State    string  `json:"state"`
	Viewers  int     `json:"viewers"`
}

// InitialProgress is the local state shown before the first snapshot.
func InitialProgress() ProgressState {
	return ProgressState{Progress: 0, State: "IDLE", Viewers: 1}
}

// String formats the state the way the progress view prints it.
func (p ProgressState) String() string {
	return fmt.Sprintf("Progress: %g%% — %s — Viewers: %d", p.Progress, p.State, p.Viewers)
}

// Clone returns a deep copy of the configuration.
func (c Configuration) Clone() Configuration {
	out := c
	out.Parameters = make([]Parameter, len(c.Parameters))
	for i, p := range c.Parameters {
		out.Parameters[i] = Parameter{
			Key:    p.Key,
			Type:   p.Type,
			Values: append([]Value(nil), p.Values...),
		}
	}
	return out
}

// WithID returns a copy of the configuration carrying id.
func (c Configuration) WithID(id string) Configuration {
	out := c.Clone()
	out.ID = id
	return out
}

// Param returns the first parameter whose key equals key.
func (c *Configuration) Param(key string) (*Parameter, bool) {
	for i := range c.Parameters {
		if c.Parameters[i].Key == key {
			return &c.Parameters[i], true
		}
	}
	return nil, false
}

// Keys returns the parameter keys in declaration order.
func (c *Configuration) Keys() []string {
	keys := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		keys[i] = p.Key
	}
	return keys
}

// DisplayName returns the id when set, otherwise "Unnamed".
func (c *Configuration) DisplayName() string {
	if c.ID != "" {
		return c.ID
	}
	return "Unnamed"
}

// Normalize converts decoded values to their declared representation:
// whole numbers of int parameters become int64, numbers of float parameters
// become float64. Values that do not fit the type are left untouched.
func (c *Configuration) Normalize() {
	for i := range c.Parameters {
		c.Parameters[i].Normalize()
	}
}

// Normalize converts the parameter's values to their declared representation.
func (p *Parameter) Normalize() {
	for i, v := range p.Values {
		f, ok := AsFloat(v)
		if !ok {
			continue
		}
		switch p.Type {
		case ParamInt:
			if f == float64(int64(f)) {
				p.Values[i] = int64(f)
			}
		case ParamFloat:
			p.Values[i] = f
		}
	}
}

// FormatValues joins the values with commas, the inverse of the value parser.
func FormatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, ",")
}
