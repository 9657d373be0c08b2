package jersey

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Report summarizes a table.
type Report struct {
	OverallAccuracy          float64
	OverallHallucinationRate float64
	Samples                  int // rows aggregated
	Players                  int // sum of TrueNumberOfPlayers
}

// Aggregate computes player-weighted means of accuracy and hallucination
// rate over every row: images with more ground-truth players count
// proportionally more. When the weights sum to zero (an empty table, or
// only images without ground truth) it returns ErrZeroWeight instead of 0/0.
func Aggregate(t *Table) (Report, error) {
	rows := t.rows
	acc := make([]float64, len(rows))
	hall := make([]float64, len(rows))
	weights := make([]float64, len(rows))

	players := 0
	for i, r := range rows {
		acc[i] = r.Accuracy
		hall[i] = r.HallucinationRate
		weights[i] = float64(r.TrueNumberOfPlayers)
		players += r.TrueNumberOfPlayers
	}

	if players == 0 {
		return Report{}, fmt.Errorf("%w: %d samples", ErrZeroWeight, len(rows))
	}

	return Report{
		OverallAccuracy:          stat.Mean(acc, weights),
		OverallHallucinationRate: stat.Mean(hall, weights),
		Samples:                  len(rows),
		Players:                  players,
	}, nil
}
