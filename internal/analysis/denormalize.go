package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Range is the physical [Min, Max] interval a parameter was normalized from.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Validate checks Min < Max.
func (r Range) Validate() error {
	if !(r.Min < r.Max) {
		return &Error{
			Code:    ErrCodeInvalidParameter,
			Message: fmt.Sprintf("range min %g must be below max %g", r.Min, r.Max),
		}
	}
	return nil
}

// Denormalize maps the normalized columns of r back to physical units.
func (r Range) Denormalize(trues, outputs, errors []float64) ([]float64, []float64, []float64) {
	return Denormalize(trues, outputs, errors, r.Min, r.Max)
}

// Denormalize maps normalized values back to physical units:
//
//	trues'   = minpar + trues   * (maxpar - minpar)
//	outputs' = minpar + outputs * (maxpar - minpar)
//	errors'  =          errors  * (maxpar - minpar)
//
// Uncertainties are scaled but not shifted. The inputs are not modified.
func Denormalize(trues, outputs, errors []float64, minpar, maxpar float64) ([]float64, []float64, []float64) {
	span := maxpar - minpar
	return affine(trues, span, minpar), affine(outputs, span, minpar), affine(errors, span, 0)
}

// Normalize is the inverse of the value mapping in Denormalize.
func Normalize(values []float64, minpar, maxpar float64) []float64 {
	span := maxpar - minpar
	out := make([]float64, len(values))
	copy(out, values)
	floats.AddConst(-minpar, out)
	floats.Scale(1/span, out)
	return out
}

// affine returns offset + scale*values as a new slice.
func affine(values []float64, scale, offset float64) []float64 {
	out := make([]float64, len(values))
	floats.ScaleTo(out, scale, values)
	floats.AddConst(offset, out)
	return out
}
