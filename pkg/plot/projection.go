// Package plot projects a configuration onto chartable {x, y, obj} rows and
// renders them as HTML, PNG or a terminal table.
package plot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/picogrid/param-sweep/pkg/formula"
	"github.com/picogrid/param-sweep/pkg/models"
)

// ErrUnknownParameter is returned when a selected key is not present in the
// configuration. Nothing is rendered in that case.
var ErrUnknownParameter = errors.New("unknown parameter")

// Selection picks the series to plot.
type Selection struct {
	X         string
	Y         string
	UseIndex  bool
	Objective string
}

// XLabel names the x series the way the chart legend shows it.
func (s Selection) XLabel() string {
	if s.UseIndex {
		return "Index"
	}
	return s.X
}

// identity reports whether the objective leaves y unchanged.
func (s Selection) identity() bool {
	obj := strings.TrimSpace(s.Objective)
	return obj == "" || obj == "y"
}

// Point is one projected row. X and Y are the raw parameter values; Obj is
// either Y itself or the objective result.
type Point struct {
	X   models.Value `json:"x"`
	Y   models.Value `json:"y"`
	Obj models.Value `json:"obj"`
}

// Projection is the ordered result of Project.
type Projection struct {
	Title     string
	Selection Selection
	Points    []Point

	// EvalError holds the last objective evaluation failure, if any.
	EvalError string
}

// Project derives the plotted rows from cfg. The output has
// min(len(X), len(Y)) rows; extra values on the longer side are dropped.
func Project(cfg *models.Configuration, sel Selection) (*Projection, error) {
	yParam, ok := cfg.Param(sel.Y)
	if !ok {
		return nil, fmt.Errorf("%w: y %q", ErrUnknownParameter, sel.Y)
	}

	var xs []models.Value
	if sel.UseIndex {
		xs = make([]models.Value, len(yParam.Values))
		for i := range xs {
			xs[i] = int64(i)
		}
	} else {
		xParam, ok := cfg.Param(sel.X)
		if !ok {
			return nil, fmt.Errorf("%w: x %q", ErrUnknownParameter, sel.X)
		}
		xs = xParam.Values
	}

	n := len(xs)
	if len(yParam.Values) < n {
		n = len(yParam.Values)
	}

	proj := &Projection{
		Title:     "Parameter Sweep Plot: " + cfg.DisplayName(),
		Selection: sel,
		Points:    make([]Point, n),
	}
	for i := 0; i < n; i++ {
		proj.Points[i] = Point{X: xs[i], Y: yParam.Values[i], Obj: yParam.Values[i]}
	}

	if sel.identity() {
		return proj, nil
	}

	f, err := formula.Compile(sel.Objective, "x", "y")
	if err != nil {
		proj.EvalError = evalMessage(err)
		for i := range proj.Points {
			proj.Points[i].Obj = 0.0
		}
		return proj, nil
	}

	for i := range proj.Points {
		p := &proj.Points[i]
		v, err := f.EvalFloat(map[string]interface{}{"x": p.X, "y": p.Y})
		if err != nil {
			proj.EvalError = evalMessage(err)
			p.Obj = 0.0
			continue
		}
		p.Obj = v
	}
	return proj, nil
}

func evalMessage(err error) string {
	return "Error evaluating objective function: " + err.Error()
}

// Series returns the x, y and obj columns as floats for numeric renderers.
// Non-numeric x values fall back to the row index; non-numeric y or obj
// values are reported as not ok.
func (p *Projection) Series() (xs, ys, objs []float64, yOK, objOK []bool) {
	n := len(p.Points)
	xs = make([]float64, n)
	ys = make([]float64, n)
	objs = make([]float64, n)
	yOK = make([]bool, n)
	objOK = make([]bool, n)
	for i, pt := range p.Points {
		if x, ok := models.AsFloat(pt.X); ok {
			xs[i] = x
		} else {
			xs[i] = float64(i)
		}
		ys[i], yOK[i] = models.AsFloat(pt.Y)
		objs[i], objOK[i] = models.AsFloat(pt.Obj)
	}
	return xs, ys, objs, yOK, objOK
}
