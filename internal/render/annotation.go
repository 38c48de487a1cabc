package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// textBox returns an element that draws lines of text in a framed box
// anchored to the upper-left corner of the plotting area.
func textBox(lines []string, opts Options, fontSize float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		style := chart.Style{
			FillColor:   drawing.ColorWhite.WithAlpha(alpha(0.8)),
			FontColor:   chart.DefaultTextColor,
			FontSize:    fontSize,
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: opts.px(0.8),
		}.InheritFrom(defaults)

		r.SetFont(style.GetFont())
		r.SetFontColor(style.GetFontColor())
		r.SetFontSize(style.GetFontSize())

		width, lineHeight := 0, 0
		for _, line := range lines {
			tb := r.MeasureText(line)
			width = max(width, tb.Width())
			lineHeight = max(lineHeight, tb.Height())
		}
		gap := lineHeight / 2
		pad := int(opts.px(4))
		margin := int(opts.px(6))

		box := chart.Box{
			Top:  canvasBox.Top + margin,
			Left: canvasBox.Left + margin,
		}
		box.Right = box.Left + width + 2*pad
		box.Bottom = box.Top + len(lines)*lineHeight + (len(lines)-1)*gap + 2*pad

		chart.Draw.Box(r, box, style)

		r.SetFont(style.GetFont())
		r.SetFontColor(style.GetFontColor())
		r.SetFontSize(style.GetFontSize())
		for i, line := range lines {
			y := box.Top + pad + (i+1)*lineHeight + i*gap
			r.Text(line, box.Left+pad, y)
		}
	}
}
