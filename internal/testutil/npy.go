package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture file names, mirrored from the dataset package so that package
// can use these helpers in its own tests.
const (
	trueValuesFile      = "true_values.npy"
	predictedValuesFile = "predicted_values.npy"
	errorsPredictedFile = "errors_predicted.npy"
	trainLossesFile     = "train_losses.npy"
	validLossesFile     = "valid_losses.npy"
)

// WriteNPY writes a version 1.0 .npy file. dtype is "<f8" or "<f4".
func WriteNPY(t testing.TB, path, dtype string, fortran bool, shape []int, data []float64) {
	t.Helper()

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	shapeStr := "(" + strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	shapeStr += ")"

	order := "False"
	if fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", dtype, order, shapeStr)
	// magic(6) + version(2) + length(2) + header + '\n' must be 64-aligned
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	for _, v := range data {
		switch dtype {
		case "<f4":
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(v))))
		default:
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, math.Float64bits(v)))
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// WritePredictions writes the three prediction arrays into dir as
// row-major rows×2 float64 arrays. Inputs are flattened row by row.
func WritePredictions(t testing.TB, dir string, trues, outputs, errs []float64) {
	t.Helper()
	WritePredictionColumns(t, dir, 2, trues, outputs, errs)
}

// WritePredictionColumns is WritePredictions with cols columns per row.
func WritePredictionColumns(t testing.TB, dir string, cols int, trues, outputs, errs []float64) {
	t.Helper()
	shape := []int{len(trues) / cols, cols}
	WriteNPY(t, filepath.Join(dir, trueValuesFile), "<f8", false, shape, trues)
	WriteNPY(t, filepath.Join(dir, predictedValuesFile), "<f8", false, shape, outputs)
	WriteNPY(t, filepath.Join(dir, errorsPredictedFile), "<f8", false, shape, errs)
}

// WriteLosses writes the two loss series into dir as 1-D float64 arrays.
func WriteLosses(t testing.TB, dir string, train, valid []float64) {
	t.Helper()
	WriteNPY(t, filepath.Join(dir, trainLossesFile), "<f8", false, []int{len(train)}, train)
	WriteNPY(t, filepath.Join(dir, validLossesFile), "<f8", false, []int{len(valid)}, valid)
}
