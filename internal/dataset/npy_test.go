package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/cosmoviz/internal/analysis"
)

func TestReadMatrix_COrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.npy")
	writeNPY(t, path, "<f8", false, []int{3, 2}, []float64{1, 2, 3, 4, 5, 6})

	m, err := ReadMatrix(path)
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, []float64{1, 3, 5}, mat.Col(nil, 0, m))
	assert.Equal(t, []float64{2, 4, 6}, mat.Col(nil, 1, m))
}

func TestReadMatrix_FortranOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.npy")
	// column-major storage of [[1 2] [3 4] [5 6]]
	writeNPY(t, path, "<f8", true, []int{3, 2}, []float64{1, 3, 5, 2, 4, 6})

	m, err := ReadMatrix(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3, 5}, mat.Col(nil, 0, m))
	assert.Equal(t, []float64{2, 4, 6}, mat.Col(nil, 1, m))
}

func TestReadMatrix_Float32(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f4.npy")
	writeNPY(t, path, "<f4", false, []int{2, 2}, []float64{0.5, 0.25, 1, 2})

	m, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.At(0, 1))
	assert.Equal(t, 2.0, m.At(1, 1))
}

func TestReadMatrix_OneDimensional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.npy")
	writeNPY(t, path, "<f8", false, []int{4}, []float64{1, 2, 3, 4})

	m, err := ReadMatrix(path)
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 1, c)
}

func TestReadMatrix_ThreeDimensionalRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.npy")
	writeNPY(t, path, "<f8", false, []int{1, 1, 2}, []float64{1, 2})

	_, err := ReadMatrix(path)
	require.Error(t, err)
	assert.True(t, analysis.IsShapeMismatch(err))
}

func TestReadMatrix_MissingFile(t *testing.T) {
	_, err := ReadMatrix(filepath.Join(t.TempDir(), "missing.npy"))

	require.Error(t, err)
	assert.True(t, analysis.IsIO(err))
	assert.Contains(t, err.Error(), "missing.npy")
}

func TestReadSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.npy")
	writeNPY(t, path, "<f8", false, []int{3}, []float64{0.9, 0.5, 0.3})

	s, err := ReadSeries(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.5, 0.3}, s)
}

func TestReadSeries_RejectsMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.npy")
	writeNPY(t, path, "<f8", false, []int{2, 2}, []float64{1, 2, 3, 4})

	_, err := ReadSeries(path)
	require.Error(t, err)
	assert.True(t, analysis.IsShapeMismatch(err))
}
