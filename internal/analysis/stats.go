package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZeroPolicy selects what happens when a statistic meets a zero denominator.
type ZeroPolicy string

const (
	// ZeroPolicyFail returns a DIVIDE_BY_ZERO error naming the first
	// offending instance.
	ZeroPolicyFail ZeroPolicy = "fail"

	// ZeroPolicyExclude drops offending instances from that statistic only
	// and reports how many were dropped.
	ZeroPolicyExclude ZeroPolicy = "exclude"
)

// ValidZeroPolicies lists the accepted policy names.
var ValidZeroPolicies = []ZeroPolicy{ZeroPolicyFail, ZeroPolicyExclude}

// ParseZeroPolicy converts a config string into a ZeroPolicy.
// The empty string selects ZeroPolicyFail.
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch ZeroPolicy(s) {
	case "", ZeroPolicyFail:
		return ZeroPolicyFail, nil
	case ZeroPolicyExclude:
		return ZeroPolicyExclude, nil
	}
	return "", fmt.Errorf("invalid zero policy %q: must be one of %v", s, ValidZeroPolicies)
}

// Options tunes how Summarize treats edge cases.
type Options struct {
	// ZeroPolicy applies to zero true values (relative error) and zero
	// uncertainties (chi-squared).
	ZeroPolicy ZeroPolicy

	// Chi2Max, when positive, drops per-instance chi-squared terms that
	// are >= Chi2Max from the mean. Zero keeps every term.
	Chi2Max float64
}

// Summary holds the accuracy statistics of one parameter.
type Summary struct {
	Parameter      string  `json:"parameter"`
	Symbol         string  `json:"symbol"`
	N              int     `json:"n"`
	R2             float64 `json:"r2"`
	RelativeError  float64 `json:"relative_error"`
	ChiSquared     float64 `json:"chi_squared"`
	Within1Sigma   int     `json:"within_1sigma"`
	Within2Sigma   int     `json:"within_2sigma"`
	Fraction1Sigma float64 `json:"fraction_1sigma"`
	Fraction2Sigma float64 `json:"fraction_2sigma"`

	// ExcludedRelative counts instances dropped from the relative error
	// because their true value is zero.
	ExcludedRelative int `json:"excluded_relative,omitempty"`

	// ExcludedChi2 counts instances dropped from the chi-squared mean,
	// either for a zero uncertainty or for exceeding Options.Chi2Max.
	ExcludedChi2 int `json:"excluded_chi2,omitempty"`
}

// Summarize computes every statistic for one denormalized parameter column.
func Summarize(p Parameter, trues, outputs, errors []float64, opts Options) (*Summary, error) {
	if err := checkLengths(trues, outputs, errors); err != nil {
		return nil, err
	}
	n := len(trues)
	if n == 0 {
		return nil, NewShapeMismatchError("no instances to summarize", map[string]string{"parameter": p.Name})
	}

	r2, err := RSquared(trues, outputs)
	if err != nil {
		return nil, err
	}
	relErr, excludedRel, err := RelativeError(trues, outputs, opts.ZeroPolicy)
	if err != nil {
		return nil, err
	}
	chi2, excludedChi2, err := ChiSquared(trues, outputs, errors, opts)
	if err != nil {
		return nil, err
	}

	within1 := Coverage(trues, outputs, errors, 1)
	within2 := Coverage(trues, outputs, errors, 2)

	return &Summary{
		Parameter:        p.Name,
		Symbol:           p.Symbol,
		N:                n,
		R2:               r2,
		RelativeError:    relErr,
		ChiSquared:       chi2,
		Within1Sigma:     within1,
		Within2Sigma:     within2,
		Fraction1Sigma:   float64(within1) / float64(n),
		Fraction2Sigma:   float64(within2) / float64(n),
		ExcludedRelative: excludedRel,
		ExcludedChi2:     excludedChi2,
	}, nil
}

// Coverage counts instances with |outputs[i]-trues[i]| <= k*|errors[i]|.
func Coverage(trues, outputs, errors []float64, k float64) int {
	count := 0
	for i := range trues {
		if math.Abs(outputs[i]-trues[i]) <= k*math.Abs(errors[i]) {
			count++
		}
	}
	return count
}

// CoverageFractions returns the fraction of instances within 1σ and 2σ.
// Empty input yields zero fractions.
func CoverageFractions(trues, outputs, errors []float64) (float64, float64) {
	n := len(trues)
	if n == 0 {
		return 0, 0
	}
	return float64(Coverage(trues, outputs, errors, 1)) / float64(n),
		float64(Coverage(trues, outputs, errors, 2)) / float64(n)
}

// RSquared returns the coefficient of determination 1 - SS_res/SS_tot of
// outputs against trues. Constant trues make SS_tot zero and fail with
// DIVIDE_BY_ZERO regardless of policy.
func RSquared(trues, outputs []float64) (float64, error) {
	if len(trues) != len(outputs) {
		return 0, lengthMismatch("outputs", len(trues), len(outputs))
	}
	if len(trues) == 0 {
		return 0, NewShapeMismatchError("no instances for R2", nil)
	}
	if floats.Min(trues) == floats.Max(trues) {
		return 0, NewDivideByZeroError("r2", "true values have zero variance", -1)
	}
	return stat.RSquaredFrom(outputs, trues, nil), nil
}

// RelativeError returns mean(|trues-outputs| / |trues|) and the number of
// instances dropped for a zero true value.
func RelativeError(trues, outputs []float64, policy ZeroPolicy) (float64, int, error) {
	if len(trues) != len(outputs) {
		return 0, 0, lengthMismatch("outputs", len(trues), len(outputs))
	}

	terms := make([]float64, 0, len(trues))
	excluded := 0
	for i, t := range trues {
		if t == 0 {
			if policy != ZeroPolicyExclude {
				return 0, 0, NewDivideByZeroError("relative_error", "true value is zero", i)
			}
			excluded++
			continue
		}
		terms = append(terms, math.Abs((t-outputs[i])/t))
	}
	if len(terms) == 0 {
		return 0, excluded, NewDivideByZeroError("relative_error", "no instances left after exclusion", -1)
	}
	return stat.Mean(terms, nil), excluded, nil
}

// ChiSquared returns mean((outputs-trues)² / errors²) and the number of
// instances dropped, either for a zero uncertainty under ZeroPolicyExclude
// or for a term at or above opts.Chi2Max.
func ChiSquared(trues, outputs, errors []float64, opts Options) (float64, int, error) {
	if err := checkLengths(trues, outputs, errors); err != nil {
		return 0, 0, err
	}

	terms := make([]float64, 0, len(trues))
	excluded := 0
	for i := range trues {
		if errors[i] == 0 {
			if opts.ZeroPolicy != ZeroPolicyExclude {
				return 0, 0, NewDivideByZeroError("chi_squared", "uncertainty is zero", i)
			}
			excluded++
			continue
		}
		d := outputs[i] - trues[i]
		term := d * d / (errors[i] * errors[i])
		if opts.Chi2Max > 0 && term >= opts.Chi2Max {
			excluded++
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return 0, excluded, NewDivideByZeroError("chi_squared", "no instances left after exclusion", -1)
	}
	return stat.Mean(terms, nil), excluded, nil
}

func checkLengths(trues, outputs, errors []float64) error {
	if len(outputs) != len(trues) {
		return lengthMismatch("outputs", len(trues), len(outputs))
	}
	if len(errors) != len(trues) {
		return lengthMismatch("errors", len(trues), len(errors))
	}
	return nil
}

func lengthMismatch(name string, want, got int) *Error {
	return NewShapeMismatchError(
		fmt.Sprintf("%s has %d instances, trues has %d", name, got, want),
		map[string]string{"array": name},
	)
}
