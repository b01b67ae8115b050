package sweep

import (
	"math"
	"strconv"
	"strings"

	"github.com/picogrid/param-sweep/pkg/formula"
)

const (
	// MaxValues bounds a single generation so a tiny step cannot exhaust memory.
	MaxValues = 100000

	// boundaryEpsilon absorbs floating-point drift at the inclusive end.
	boundaryEpsilon = 1e-9

	// defaultSamples is used in formula mode when no positive step is given.
	defaultSamples = 100

	roundScale = 1e12
)

// Messages reported by Generate.
const (
	MsgInvalidRange    = "Invalid start/end/step"
	MsgInvalidFunction = "Invalid function"
	MsgTooManyValues   = "Too many values (limit 100000)"
)

// Range describes a generation request. Formula, when set, is an expression
// over x sampled across [Start, End].
type Range struct {
	Start   float64
	End     float64
	Step    float64
	Formula string
}

// ParseRange builds a Range from raw text fields. Blank or malformed numbers
// become NaN so Generate reports them as invalid.
func ParseRange(start, end, step, fn string) Range {
	return Range{
		Start:   parseField(start),
		End:     parseField(end),
		Step:    parseField(step),
		Formula: strings.TrimSpace(fn),
	}
}

func parseField(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Generate produces the sequence described by r.
func Generate(r Range) ([]float64, error) {
	if !finite(r.Start) || !finite(r.End) {
		return nil, &GenerationError{Msg: MsgInvalidRange}
	}
	if r.Formula == "" {
		if !finite(r.Step) || r.Step <= 0 {
			return nil, &GenerationError{Msg: MsgInvalidRange}
		}
		return arithmetic(r.Start, r.End, r.Step)
	}
	return sampled(r)
}

// arithmetic emits start, start+step, ... up to end (inclusive within
// boundaryEpsilon). Each value is computed from the index rather than
// accumulated, then rounded to 12 fractional digits.
func arithmetic(start, end, step float64) ([]float64, error) {
	if start > end+boundaryEpsilon {
		return []float64{}, nil
	}
	expected := math.Floor((end-start+boundaryEpsilon)/step) + 1
	if expected > MaxValues {
		return nil, &GenerationError{Msg: MsgTooManyValues}
	}

	out := make([]float64, 0, int(expected))
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > end+boundaryEpsilon {
			break
		}
		out = append(out, round12(v))
	}
	return out, nil
}

// sampled evaluates the formula at n+1 evenly spaced points. Points whose
// evaluation fails or is not a finite number are skipped; a formula that
// does not compile aborts the whole generation.
func sampled(r Range) ([]float64, error) {
	f, err := formula.Compile(r.Formula, "x")
	if err != nil {
		return nil, &GenerationError{Msg: MsgInvalidFunction, Err: err}
	}
	if r.Start > r.End {
		return []float64{}, nil
	}

	n := defaultSamples
	switch {
	case r.End == r.Start:
		n = 0
	case finite(r.Step) && r.Step > 0:
		count := math.Ceil((r.End - r.Start) / r.Step)
		if count >= MaxValues {
			return nil, &GenerationError{Msg: MsgTooManyValues}
		}
		n = int(count)
	}

	var h float64
	if n > 0 {
		h = (r.End - r.Start) / float64(n)
	}

	out := make([]float64, 0, n+1)
	vars := map[string]interface{}{}
	for i := 0; i <= n; i++ {
		vars["x"] = r.Start + float64(i)*h
		v, err := f.EvalFloat(vars)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func round12(v float64) float64 {
	r := math.Round(v*roundScale) / roundScale
	if r == 0 {
		return 0
	}
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
