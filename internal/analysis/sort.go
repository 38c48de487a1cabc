package analysis

import "sort"

// SortByTruth returns copies of the three columns reordered by ascending
// true value. Ties keep their original order.
func SortByTruth(trues, outputs, errors []float64) ([]float64, []float64, []float64) {
	idx := make([]int, len(trues))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return trues[idx[a]] < trues[idx[b]]
	})

	t := make([]float64, len(idx))
	o := make([]float64, len(idx))
	e := make([]float64, len(idx))
	for dst, src := range idx {
		t[dst] = trues[src]
		o[dst] = outputs[src]
		e[dst] = errors[src]
	}
	return t, o, e
}
