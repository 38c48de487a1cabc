package dataset

import (
	"path/filepath"

	"github.com/roach88/cosmoviz/internal/analysis"
)

// Losses holds per-epoch training and validation losses.
type Losses struct {
	Train []float64
	Valid []float64
}

// LoadLosses reads train_losses.npy and valid_losses.npy from dir.
func LoadLosses(dir string) (*Losses, error) {
	train, err := ReadSeries(filepath.Join(dir, TrainLossesFile))
	if err != nil {
		return nil, err
	}
	valid, err := ReadSeries(filepath.Join(dir, ValidLossesFile))
	if err != nil {
		return nil, err
	}
	return &Losses{Train: train, Valid: valid}, nil
}

// CheckEpochs verifies that both series cover at least epochs values.
func (l *Losses) CheckEpochs(epochs int) error {
	return analysis.CheckEpochs(l.Train, l.Valid, epochs)
}
