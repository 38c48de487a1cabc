package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette used by both reports.
var (
	colorTraining   = drawing.ColorFromHex("648FFF")
	colorScatter    = drawing.ColorFromHex("785EF0")
	colorIdentity   = drawing.ColorFromHex("DC267F")
	colorValidation = drawing.ColorFromHex("FE6100")
	colorGrid       = drawing.ColorFromHex("B0B0B0")
)

// alpha converts an opacity in [0, 1] to a channel value.
func alpha(a float64) uint8 {
	return uint8(a*255 + 0.5)
}

func gridStyle(opts Options, opacity float64) chart.Style {
	return chart.Style{
		StrokeColor: colorGrid.WithAlpha(alpha(opacity)),
		StrokeWidth: opts.px(0.5),
	}
}

func lineStyle(opts Options, c drawing.Color, widthPt, opacity float64) chart.Style {
	return chart.Style{
		StrokeColor: c.WithAlpha(alpha(opacity)),
		StrokeWidth: opts.px(widthPt),
	}
}

func background(opts Options) chart.Style {
	pad := int(opts.px(14))
	return chart.Style{
		Padding: chart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad},
	}
}

// paddedRange returns [lo, hi] widened when the two coincide so the chart
// never sees a zero-width axis.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		d := 0.5
		if lo != 0 {
			d = 0.05 * abs(lo)
		}
		lo, hi = lo-d, hi+d
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
