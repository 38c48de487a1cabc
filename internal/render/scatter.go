package render

import (
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// ScatterFileName is the conventional output name of the scatter plot.
const ScatterFileName = "true_vs_pred.png"

// PredictionScatter builds the predicted-vs-true chart: an identity line
// over the range of the true values, one marker with a vertical error bar
// per instance, and the summary statistics in the upper-left corner.
// The caller owns the returned Figure and must Close it.
func PredictionScatter(trues, outputs, errors []float64, s *analysis.Summary, opts Options) (*Figure, error) {
	if len(trues) == 0 {
		return nil, analysis.NewShapeMismatchError("no instances to plot", nil)
	}
	if len(outputs) != len(trues) || len(errors) != len(trues) {
		return nil, analysis.NewShapeMismatchError(
			fmt.Sprintf("plot columns differ: trues=%d outputs=%d errors=%d", len(trues), len(outputs), len(errors)),
			nil,
		)
	}

	lo, hi := floats.Min(trues), floats.Max(trues)
	var xRange chart.Range
	if lo == hi {
		xRange = paddedRange(lo, hi)
	}

	c := &chart.Chart{
		Width:      opts.width(),
		Height:     opts.height(),
		DPI:        opts.DPI,
		Background: background(opts),
		XAxis: chart.XAxis{
			Name:           "Truth",
			NameStyle:      chart.Style{FontSize: 14},
			Range:          xRange,
			GridMajorStyle: gridStyle(opts, 0.8),
		},
		YAxis: chart.YAxis{
			Name:           "Prediction",
			NameStyle:      chart.Style{FontSize: 14},
			GridMajorStyle: gridStyle(opts, 0.8),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "identity",
				XValues: []float64{lo, hi},
				YValues: []float64{lo, hi},
				Style:   lineStyle(opts, colorIdentity, 1.5, 1),
			},
			errorBarSeries{
				Name: "predictions",
				X:    trues,
				Y:    outputs,
				Err:  errors,
				Style: chart.Style{
					StrokeColor: colorScatter,
					StrokeWidth: opts.px(0.5),
					DotColor:    colorScatter,
					DotWidth:    opts.px(1),
				},
			},
		},
		Elements: []chart.Renderable{
			textBox(AnnotationLines(s), opts, 12),
		},
	}

	return newFigure(ScatterFileName, c, opts), nil
}

// AnnotationLines returns the text drawn in the scatter plot's stats box.
func AnnotationLines(s *analysis.Summary) []string {
	return []string{
		s.Symbol,
		fmt.Sprintf("R²=%.2f", s.R2),
		fmt.Sprintf("ε=%.1f %%", 100*s.RelativeError),
		fmt.Sprintf("χ²=%.2f", s.ChiSquared),
		fmt.Sprintf("accuracy at 1σ: %.1f%%", 100*s.Fraction1Sigma),
		fmt.Sprintf("accuracy at 2σ: %.1f%%", 100*s.Fraction2Sigma),
	}
}
