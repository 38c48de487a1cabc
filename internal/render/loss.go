package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// LossFileName is the conventional output name of the loss curve.
const LossFileName = "losses.png"

// LossCurve builds the training/validation loss chart for the first
// epochs values of each series. The caller owns the returned Figure and
// must Close it.
func LossCurve(train, valid []float64, epochs int, opts Options) (*Figure, error) {
	if err := analysis.CheckEpochs(train, valid, epochs); err != nil {
		return nil, err
	}

	xs := make([]float64, epochs)
	for i := range xs {
		xs[i] = float64(i)
	}
	train, valid = train[:epochs], valid[:epochs]

	lo := min(floats.Min(train), floats.Min(valid))
	hi := max(floats.Max(train), floats.Max(valid))
	var yRange chart.Range
	if lo == hi {
		yRange = paddedRange(lo, hi)
	}
	var xRange chart.Range
	if epochs == 1 {
		xRange = paddedRange(0, 0)
	}

	c := &chart.Chart{
		Width:      opts.width(),
		Height:     opts.height(),
		DPI:        opts.DPI,
		Background: background(opts),
		XAxis: chart.XAxis{
			Name:           "Epochs",
			Range:          xRange,
			GridMajorStyle: gridStyle(opts, 0.4),
		},
		YAxis: chart.YAxis{
			Name:           "Loss",
			Range:          yRange,
			GridMajorStyle: gridStyle(opts, 0.4),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Training",
				XValues: xs,
				YValues: train,
				Style:   lineStyle(opts, colorTraining, 0.8, 0.8),
			},
			chart.ContinuousSeries{
				Name:    "Validation",
				XValues: xs,
				YValues: valid,
				Style:   lineStyle(opts, colorValidation, 0.8, 0.8),
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}

	return newFigure(LossFileName, c, opts), nil
}
