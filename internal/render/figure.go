package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/draw"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// Output defaults: an 8×6 inch figure at 400 DPI.
const (
	DefaultDPI          = 400
	DefaultWidthInches  = 8.0
	DefaultHeightInches = 6.0
)

// Options controls the raster size of a figure.
type Options struct {
	DPI          float64
	WidthInches  float64
	HeightInches float64

	// Crop trims the uniform background margin around the content.
	Crop bool
}

// DefaultOptions returns 400 DPI, 8×6 in, cropped.
func DefaultOptions() Options {
	return Options{
		DPI:          DefaultDPI,
		WidthInches:  DefaultWidthInches,
		HeightInches: DefaultHeightInches,
		Crop:         true,
	}
}

func (o Options) width() int  { return int(o.WidthInches * o.DPI) }
func (o Options) height() int { return int(o.HeightInches * o.DPI) }

// px converts a length in points to pixels at the figure's DPI.
func (o Options) px(points float64) float64 {
	return points * o.DPI / 72
}

var openFigures atomic.Int64

// OpenFigures returns the number of figures that have not been closed.
func OpenFigures() int64 {
	return openFigures.Load()
}

// Figure owns one chart from construction until Close. The chart is
// rendered into memory on first use, so a failed render never touches
// the filesystem.
type Figure struct {
	name   string
	chart  *chart.Chart
	opts   Options
	png    []byte
	closed bool
}

func newFigure(name string, c *chart.Chart, opts Options) *Figure {
	openFigures.Add(1)
	return &Figure{name: name, chart: c, opts: opts}
}

// Name returns the figure's base file name, e.g. "losses.png".
func (f *Figure) Name() string {
	return f.name
}

// Close releases the chart and the encoded image. Close is idempotent.
func (f *Figure) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.chart = nil
	f.png = nil
	openFigures.Add(-1)
	return nil
}

// Encode renders the chart to PNG bytes. The result is cached.
func (f *Figure) Encode() ([]byte, error) {
	if f.closed {
		return nil, fmt.Errorf("figure %s: already closed", f.name)
	}
	if f.png != nil {
		return f.png, nil
	}

	var buf bytes.Buffer
	if err := f.chart.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", f.name, err)
	}

	out := buf.Bytes()
	if f.opts.Crop {
		cropped, err := cropPNG(out, int(f.opts.px(4)))
		if err != nil {
			return nil, fmt.Errorf("crop %s: %w", f.name, err)
		}
		out = cropped
	}
	f.png = out
	return out, nil
}

// Show hands the encoded image to d. Display failures are logged and do
// not prevent the figure from being saved afterwards.
func (f *Figure) Show(ctx context.Context, d Displayer) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	if err := d.Display(ctx, f.name, data); err != nil {
		slog.Warn("display failed", "figure", f.name, "error", err)
	}
	return nil
}

// Save writes the encoded image to path, replacing any existing file.
// The image is written to a temporary file in the same directory and
// renamed into place, so readers never observe a partial PNG.
func (f *Figure) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return analysis.NewIOError("create output directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return analysis.NewIOError("create output file", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return analysis.NewIOError("write output file", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return analysis.NewIOError("write output file", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return analysis.NewIOError("rename output file", path, err)
	}

	slog.Debug("figure saved", "path", path, "bytes", len(data))
	return nil
}

// cropPNG trims rows and columns that only contain the top-left pixel's
// color, keeping margin pixels around the content.
func cropPNG(data []byte, margin int) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	bg := color.RGBAModel.Convert(img.At(b.Min.X, b.Min.Y))
	content := image.Rectangle{Min: b.Max, Max: b.Min}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) == bg {
				continue
			}
			if x < content.Min.X {
				content.Min.X = x
			}
			if y < content.Min.Y {
				content.Min.Y = y
			}
			if x+1 > content.Max.X {
				content.Max.X = x + 1
			}
			if y+1 > content.Max.Y {
				content.Max.Y = y + 1
			}
		}
	}
	if content.Empty() {
		return data, nil
	}
	content = content.Inset(-margin).Intersect(b)
	if content == b {
		return data, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, content.Dx(), content.Dy()))
	draw.Copy(dst, image.Point{}, img, content, draw.Src, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
