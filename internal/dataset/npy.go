package dataset

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// ReadMatrix reads a 1-D or 2-D float .npy file into a row-major matrix.
// A 1-D array of length n becomes an n×1 matrix. Both C and Fortran
// ordered files are accepted, with float64 or float32 data.
func ReadMatrix(path string) (*mat.Dense, error) {
	data, shape, fortran, err := readNPY(path)
	if err != nil {
		return nil, err
	}

	var rows, cols int
	switch len(shape) {
	case 1:
		rows, cols = shape[0], 1
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return nil, analysis.NewShapeMismatchError(
			fmt.Sprintf("expected a 1-D or 2-D array, got %d dimensions", len(shape)),
			map[string]string{"path": path, "shape": fmt.Sprint(shape)},
		)
	}
	if rows == 0 || cols == 0 {
		return nil, analysis.NewShapeMismatchError("array is empty",
			map[string]string{"path": path, "shape": fmt.Sprint(shape)})
	}

	if fortran && cols > 1 {
		return mat.DenseCopyOf(mat.NewDense(cols, rows, data).T()), nil
	}
	return mat.NewDense(rows, cols, data), nil
}

// ReadSeries reads a 1-D float .npy file. A 2-D file with a single
// column or a single row is accepted as well.
func ReadSeries(path string) ([]float64, error) {
	data, shape, _, err := readNPY(path)
	if err != nil {
		return nil, err
	}

	switch {
	case len(shape) == 1:
	case len(shape) == 2 && (shape[0] == 1 || shape[1] == 1):
	default:
		return nil, analysis.NewShapeMismatchError(
			"expected a 1-D series",
			map[string]string{"path": path, "shape": fmt.Sprint(shape)},
		)
	}
	return data, nil
}

// readNPY decodes the raw values of path in file order.
func readNPY(path string) ([]float64, []int, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, false, analysis.NewIOError("open array", path, err)
	}
	defer f.Close()

	r, err := npy.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, nil, false, analysis.NewIOError("read array header", path, err)
	}
	descr := r.Header.Descr

	var data []float64
	switch descr.Type {
	case "<f8", "f8", "float64":
		if err := r.Read(&data); err != nil {
			return nil, nil, false, analysis.NewIOError("read array data", path, err)
		}
	case "<f4", "f4", "float32":
		var raw []float32
		if err := r.Read(&raw); err != nil {
			return nil, nil, false, analysis.NewIOError("read array data", path, err)
		}
		data = make([]float64, len(raw))
		for i, v := range raw {
			data[i] = float64(v)
		}
	default:
		return nil, nil, false, analysis.NewIOError("read array data", path,
			fmt.Errorf("unsupported dtype %q (want <f8 or <f4)", descr.Type))
	}

	return data, descr.Shape, descr.Fortran, nil
}
