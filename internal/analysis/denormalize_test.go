package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenormalize_Zeros(t *testing.T) {
	zeros := []float64{0, 0, 0}

	trues, outputs, errs := Denormalize(zeros, zeros, zeros, 0.1, 0.5)

	for i := range zeros {
		assert.InDelta(t, 0.1, trues[i], 1e-12)
		assert.InDelta(t, 0.1, outputs[i], 1e-12)
		assert.InDelta(t, 0.0, errs[i], 1e-12)
	}
}

func TestDenormalize_Ones(t *testing.T) {
	ones := []float64{1, 1}

	trues, outputs, errs := Denormalize(ones, ones, ones, 0.6, 1.0)

	for i := range ones {
		assert.InDelta(t, 1.0, trues[i], 1e-12)
		assert.InDelta(t, 1.0, outputs[i], 1e-12)
		assert.InDelta(t, 0.4, errs[i], 1e-12)
	}
}

func TestDenormalize_ErrorsScaleWithoutShift(t *testing.T) {
	_, _, errs := Denormalize([]float64{0.5}, []float64{0.5}, []float64{0.25}, 0.1, 0.5)
	assert.InDelta(t, 0.1, errs[0], 1e-12)
}

func TestDenormalize_DoesNotMutateInputs(t *testing.T) {
	trues := []float64{0.2, 0.4}
	outputs := []float64{0.3, 0.5}
	errs := []float64{0.01, 0.02}

	_, _, _ = Denormalize(trues, outputs, errs, 0.1, 0.5)

	assert.Equal(t, []float64{0.2, 0.4}, trues)
	assert.Equal(t, []float64{0.3, 0.5}, outputs)
	assert.Equal(t, []float64{0.01, 0.02}, errs)
}

func TestDenormalize_RoundTrip(t *testing.T) {
	physical := []float64{0.1, 0.17, 0.333, 0.42, 0.5}

	normalized := Normalize(physical, 0.1, 0.5)
	back, _, _ := Denormalize(normalized, normalized, normalized, 0.1, 0.5)

	require.Len(t, back, len(physical))
	for i := range physical {
		assert.InDelta(t, physical[i], back[i], 1e-12)
	}
}

func TestRange_Denormalize(t *testing.T) {
	r := Range{Min: 0.6, Max: 1.0}

	trues, outputs, errs := r.Denormalize([]float64{0.5}, []float64{0.25}, []float64{0.1})

	assert.InDelta(t, 0.8, trues[0], 1e-12)
	assert.InDelta(t, 0.7, outputs[0], 1e-12)
	assert.InDelta(t, 0.04, errs[0], 1e-12)
	assert.InDelta(t, 0.4, r.Span(), 1e-12)
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, Range{Min: 0.1, Max: 0.5}.Validate())

	err := Range{Min: 0.5, Max: 0.5}.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidParameter(err))
}
