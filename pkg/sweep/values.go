// Package sweep turns user input into parameter value lists: comma-separated
// text parsed against a declared type, and numeric sequences generated from a
// start/end/step range or a formula over x.
package sweep

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/picogrid/param-sweep/pkg/models"
)

// Messages reported by ParseValues, Conform and Generate.
const (
	MsgFloat   = "Must be a float"
	MsgInteger = "Must be an integer"
	MsgEmpty   = "Must not be empty"
	MsgString  = "Must be a string"

	MsgNotNumeric = "Values can only be generated for float or int parameters"
)

var integerToken = regexp.MustCompile(`^-?\d+$`)

// ParseValues splits raw on commas, trims each token and converts it to typ.
// The first invalid token rejects the whole batch.
func ParseValues(raw string, typ models.ParamType) ([]models.Value, error) {
	tokens := strings.Split(raw, ",")
	out := make([]models.Value, 0, len(tokens))

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, msg := convert(tok, typ)
		if msg != "" {
			return nil, &ParseError{Msg: msg, Token: tok, Index: i}
		}
		out = append(out, v)
	}
	return out, nil
}

func convert(tok string, typ models.ParamType) (models.Value, string) {
	switch typ {
	case models.ParamFloat:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, MsgFloat
		}
		return f, ""
	case models.ParamInt:
		if !integerToken.MatchString(tok) {
			return nil, MsgInteger
		}
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, MsgInteger
		}
		return n, ""
	case models.ParamEnum:
		if tok == "" {
			return nil, MsgEmpty
		}
		return tok, ""
	default:
		return nil, fmt.Sprintf("Unsupported type %q", string(typ))
	}
}

// Conform checks that every value already matches typ: finite numbers for
// float, whole numbers for int and non-empty strings for enum. The first
// mismatch is reported the way ParseValues reports a bad token.
func Conform(values []models.Value, typ models.ParamType) error {
	for i, v := range values {
		if msg := conformValue(v, typ); msg != "" {
			return &ParseError{Msg: msg, Token: models.FormatValue(v), Index: i}
		}
	}
	return nil
}

func conformValue(v models.Value, typ models.ParamType) string {
	switch typ {
	case models.ParamFloat:
		f, ok := models.AsFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return MsgFloat
		}
	case models.ParamInt:
		f, ok := models.AsFloat(v)
		if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
			return MsgInteger
		}
	case models.ParamEnum:
		s, ok := v.(string)
		if !ok {
			return MsgString
		}
		if strings.TrimSpace(s) == "" {
			return MsgEmpty
		}
	default:
		return fmt.Sprintf("Unsupported type %q", string(typ))
	}
	return ""
}

// FloatValues converts a generated sequence into parameter values.
func FloatValues(in []float64) []models.Value {
	out := make([]models.Value, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// JoinFloats renders a generated sequence as the comma-separated text the
// parser accepts.
func JoinFloats(in []float64) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
