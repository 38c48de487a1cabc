package dataset

import (
	"testing"

	"github.com/roach88/cosmoviz/internal/testutil"
)

func writeNPY(t *testing.T, path, dtype string, fortran bool, shape []int, data []float64) {
	t.Helper()
	testutil.WriteNPY(t, path, dtype, fortran, shape, data)
}

func writePredictionFixture(t *testing.T, dir string, trues, outputs, errs []float64) {
	t.Helper()
	testutil.WritePredictions(t, dir, trues, outputs, errs)
}
