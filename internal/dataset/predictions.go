package dataset

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// Conventional array file names written by the training pipeline.
const (
	TrueValuesFile      = "true_values.npy"
	PredictedValuesFile = "predicted_values.npy"
	ErrorsPredictedFile = "errors_predicted.npy"
	TrainLossesFile     = "train_losses.npy"
	ValidLossesFile     = "valid_losses.npy"
)

// Predictions holds the three parallel arrays produced by the pipeline.
// Rows are instances, columns are parameters.
type Predictions struct {
	Trues   *mat.Dense
	Outputs *mat.Dense
	Errors  *mat.Dense
}

// Column is one parameter's slice through Predictions.
type Column struct {
	Trues   []float64
	Outputs []float64
	Errors  []float64
}

// Len returns the number of instances.
func (c Column) Len() int {
	return len(c.Trues)
}

// LoadPredictions reads the three prediction arrays from dir and checks
// that their shapes agree. The sentinel row is still present.
func LoadPredictions(dir string) (*Predictions, error) {
	trues, err := ReadMatrix(filepath.Join(dir, TrueValuesFile))
	if err != nil {
		return nil, err
	}
	outputs, err := ReadMatrix(filepath.Join(dir, PredictedValuesFile))
	if err != nil {
		return nil, err
	}
	errs, err := ReadMatrix(filepath.Join(dir, ErrorsPredictedFile))
	if err != nil {
		return nil, err
	}

	p := &Predictions{Trues: trues, Outputs: outputs, Errors: errs}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows, cols := trues.Dims()
	slog.Debug("predictions loaded", "dir", dir, "rows", rows, "cols", cols)
	return p, nil
}

// Validate checks that the three arrays share the same shape.
func (p *Predictions) Validate() error {
	rows, cols := p.Trues.Dims()
	others := []struct {
		name string
		m    *mat.Dense
	}{
		{"predicted_values", p.Outputs},
		{"errors_predicted", p.Errors},
	}
	for _, o := range others {
		name := o.name
		r, c := o.m.Dims()
		if r != rows || c != cols {
			return analysis.NewShapeMismatchError(
				fmt.Sprintf("%s is %dx%d, true_values is %dx%d", name, r, c, rows, cols),
				map[string]string{"array": name},
			)
		}
	}
	return nil
}

// Rows returns the number of instances.
func (p *Predictions) Rows() int {
	r, _ := p.Trues.Dims()
	return r
}

// DropSentinel returns a view without row 0, the placeholder record the
// pipeline writes before the first real instance. At least one real row
// must remain.
func (p *Predictions) DropSentinel() (*Predictions, error) {
	rows, cols := p.Trues.Dims()
	if rows < 2 {
		return nil, analysis.NewShapeMismatchError(
			"no instances after dropping the sentinel row",
			map[string]string{"rows": fmt.Sprint(rows)},
		)
	}
	return &Predictions{
		Trues:   p.Trues.Slice(1, rows, 0, cols).(*mat.Dense),
		Outputs: p.Outputs.Slice(1, rows, 0, cols).(*mat.Dense),
		Errors:  p.Errors.Slice(1, rows, 0, cols).(*mat.Dense),
	}, nil
}

// Column extracts one parameter column from each array.
func (p *Predictions) Column(col int) (Column, error) {
	_, cols := p.Trues.Dims()
	if col < 0 || col >= cols {
		return Column{}, analysis.NewShapeMismatchError(
			fmt.Sprintf("column %d out of range for %d-column arrays", col, cols),
			map[string]string{"column": fmt.Sprint(col)},
		)
	}
	return Column{
		Trues:   mat.Col(nil, col, p.Trues),
		Outputs: mat.Col(nil, col, p.Outputs),
		Errors:  mat.Col(nil, col, p.Errors),
	}, nil
}
