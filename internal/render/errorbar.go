package render

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// errorBarSeries draws (X[i], Y[i]) markers with vertical bars of
// half-height |Err[i]|.
type errorBarSeries struct {
	Name  string
	Style chart.Style
	X     []float64
	Y     []float64
	Err   []float64
}

var (
	_ chart.Series                = errorBarSeries{}
	_ chart.BoundedValuesProvider = errorBarSeries{}
)

func (s errorBarSeries) GetName() string { return s.Name }
func (s errorBarSeries) GetStyle() chart.Style { return s.Style }
func (s errorBarSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s errorBarSeries) Len() int { return len(s.X) }

// GetBoundedValues reports the bar extent so the y-range covers every bar.
func (s errorBarSeries) GetBoundedValues(i int) (x, y1, y2 float64) {
	e := math.Abs(s.Err[i])
	return s.X[i], s.Y[i] + e, s.Y[i] - e
}

func (s errorBarSeries) Validate() error {
	if len(s.X) == 0 {
		return fmt.Errorf("error bar series %q has no points", s.Name)
	}
	if len(s.Y) != len(s.X) || len(s.Err) != len(s.X) {
		return fmt.Errorf("error bar series %q: x=%d y=%d err=%d", s.Name, len(s.X), len(s.Y), len(s.Err))
	}
	return nil
}

func (s errorBarSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.Style.InheritFrom(defaults)

	r.SetStrokeColor(style.GetStrokeColor())
	r.SetStrokeWidth(style.GetStrokeWidth())
	for i := range s.X {
		x := canvasBox.Left + xrange.Translate(s.X[i])
		e := math.Abs(s.Err[i])
		r.MoveTo(x, canvasBox.Bottom-yrange.Translate(s.Y[i]-e))
		r.LineTo(x, canvasBox.Bottom-yrange.Translate(s.Y[i]+e))
		r.Stroke()
	}

	dot := style.GetDotWidth()
	if dot <= 0 {
		return
	}
	r.SetFillColor(style.GetDotColor())
	r.SetStrokeColor(style.GetDotColor())
	for i := range s.X {
		x := canvasBox.Left + xrange.Translate(s.X[i])
		y := canvasBox.Bottom - yrange.Translate(s.Y[i])
		r.Circle(dot, x, y)
		r.FillStroke()
	}
}
