package plot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

// Series colours follow the original chart: x green, y purple, objective orange.
const (
	colorX   = "#82ca9d"
	colorY   = "#8884d8"
	colorObj = "#ff7300"
)

// HTMLRenderer renders an interactive go-echarts line chart.
type HTMLRenderer struct {
	Width  string
	Height string
}

func (r *HTMLRenderer) Name() string      { return "html" }
func (r *HTMLRenderer) Extension() string { return ".html" }

func (r *HTMLRenderer) Render(w io.Writer, p *Projection) error {
	width, height := r.Width, r.Height
	if width == "" {
		width = "900px"
	}
	if height == "" {
		height = "400px"
	}

	labels := make([]string, len(p.Points))
	xData := make([]opts.LineData, len(p.Points))
	yData := make([]opts.LineData, len(p.Points))
	objData := make([]opts.LineData, len(p.Points))
	for i, pt := range p.Points {
		labels[i] = models.FormatValue(pt.X)
		xData[i] = opts.LineData{Value: chartValue(pt.X)}
		yData[i] = opts.LineData{Value: chartValue(pt.Y)}
		objData[i] = opts.LineData{Value: chartValue(pt.Obj)}
	}

	subtitle := fmt.Sprintf("x=%s y=%s rows=%d", p.Selection.XLabel(), p.Selection.Y, len(p.Points))
	if p.EvalError != "" {
		subtitle += " | " + p.EvalError
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: p.Title, Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: p.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: p.Selection.XLabel(), NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(labels).
		AddSeries(p.Selection.XLabel(), xData, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorX})).
		AddSeries(p.Selection.Y, yData, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorY})).
		AddSeries("Objective", objData, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorObj}))

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// chartValue maps non-numeric values to "-", which echarts draws as a gap.
func chartValue(v models.Value) interface{} {
	if f, ok := models.AsFloat(v); ok {
		return f
	}
	return "-"
}

// PNGRenderer renders a static gonum/plot line chart.
type PNGRenderer struct {
	Width  vg.Length
	Height vg.Length
}

func (r *PNGRenderer) Name() string      { return "png" }
func (r *PNGRenderer) Extension() string { return ".png" }

func (r *PNGRenderer) Render(w io.Writer, p *Projection) error {
	width, height := r.Width, r.Height
	if width == 0 {
		width = 10 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}

	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.Selection.XLabel()
	pl.Y.Label.Text = "Value"
	pl.Add(plotter.NewGrid())

	xs, ys, objs, yOK, objOK := p.Series()
	xPts := make(plotter.XYs, 0, len(xs))
	yPts := make(plotter.XYs, 0, len(xs))
	objPts := make(plotter.XYs, 0, len(xs))
	for i, x := range xs {
		xPts = append(xPts, plotter.XY{X: x, Y: x})
		if yOK[i] {
			yPts = append(yPts, plotter.XY{X: x, Y: ys[i]})
		}
		if objOK[i] {
			objPts = append(objPts, plotter.XY{X: x, Y: objs[i]})
		}
	}

	series := []struct {
		name string
		pts  plotter.XYs
	}{
		{p.Selection.XLabel(), xPts},
		{p.Selection.Y, yPts},
		{"Objective", objPts},
	}
	for i, s := range series {
		if len(s.pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(s.pts)
		if err != nil {
			return fmt.Errorf("failed to build %s line: %w", s.name, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		pl.Add(l)
		pl.Legend.Add(s.name, l)
	}
	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	wt, err := pl.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// TableRenderer prints the rows as a terminal table.
type TableRenderer struct{}

func (r *TableRenderer) Name() string      { return "table" }
func (r *TableRenderer) Extension() string { return ".txt" }

func (r *TableRenderer) Render(w io.Writer, p *Projection) error {
	t := logger.NewTable("#", p.Selection.XLabel(), p.Selection.Y, "Objective")
	for i, pt := range p.Points {
		t.AddRow(
			fmt.Sprintf("%d", i),
			models.FormatValue(pt.X),
			models.FormatValue(pt.Y),
			models.FormatValue(pt.Obj),
		)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if p.EvalError != "" {
		if _, err := fmt.Fprintln(w, p.EvalError); err != nil {
			return err
		}
	}
	return nil
}
