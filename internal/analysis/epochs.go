package analysis

import "fmt"

// CheckEpochs verifies that train and valid both hold at least epochs values.
func CheckEpochs(train, valid []float64, epochs int) error {
	if epochs <= 0 {
		return NewShapeMismatchError(fmt.Sprintf("epoch count must be positive, got %d", epochs), nil)
	}
	series := []struct {
		name   string
		values []float64
	}{
		{"train", train},
		{"valid", valid},
	}
	for _, s := range series {
		if len(s.values) < epochs {
			return NewShapeMismatchError(
				fmt.Sprintf("%s losses hold %d values, need %d epochs", s.name, len(s.values), epochs),
				map[string]string{"series": s.name},
			)
		}
	}
	return nil
}
