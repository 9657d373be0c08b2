package jersey

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
)

// Sample is one evaluated image.
type Sample struct {
	Image               string
	Prediction          Prediction
	GroundTruth         []int
	Accuracy            float64
	HallucinationRate   float64
	TrueNumberOfPlayers int
}

// NewSample scores prediction against truth. TrueNumberOfPlayers counts
// every ground-truth entry, duplicates included. The sample holds its own
// copies of truth and the prediction's fields.
func NewSample(image string, prediction Prediction, truth []int) Sample {
	acc, hall := Score(prediction.Numbers(), truth)
	return Sample{
		Image:               image,
		Prediction:          prediction.clone(),
		GroundTruth:         slices.Clone(truth),
		Accuracy:            acc,
		HallucinationRate:   hall,
		TrueNumberOfPlayers: len(truth),
	}
}

// Table is the append-only log of samples for one backend over one
// dataset. Rows are kept in insertion order and are not keyed by image,
// so evaluating an image twice yields two rows. A Table is not safe for
// concurrent appends.
type Table struct {
	RunID   string
	Backend string
	rows    []Sample
}

// NewTable creates an empty table for the named backend.
func NewTable(backend string) *Table {
	return &Table{
		RunID:   uuid.NewString(),
		Backend: backend,
	}
}

// Append adds one row.
func (t *Table) Append(s Sample) {
	t.rows = append(t.rows, s)
}

// Rows returns a copy of all rows in insertion order.
func (t *Table) Rows() []Sample {
	out := make([]Sample, len(t.rows))
	for i, r := range t.rows {
		r.GroundTruth = slices.Clone(r.GroundTruth)
		r.Prediction = r.Prediction.clone()
		out[i] = r
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Preview writes up to n rows (all rows if n <= 0) as an aligned table.
func (t *Table) Preview(w io.Writer, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "image\tnumber\tlast_name\tcolor\tconfidence\tnumber_ground_truth\taccuracy\thallucination_rate\ttrue_number_of_players\n")

	rows := t.rows
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	for _, r := range rows {
		p := r.Prediction
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.3f\t%.3f\t%d\n",
			r.Image,
			formatList(p.Number, func(v int) string { return strconv.Itoa(v) }),
			formatList(p.LastName, func(v string) string { return v }),
			formatList(p.Color, func(v string) string { return v }),
			formatList(p.Confidence, func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }),
			formatInts(r.GroundTruth),
			r.Accuracy,
			r.HallucinationRate,
			r.TrueNumberOfPlayers,
		)
	}
	if len(rows) < len(t.rows) {
		fmt.Fprintf(tw, "... (%d more rows)\n", len(t.rows)-len(rows))
	}
	return tw.Flush()
}

func formatList[T any](xs []*T, f func(T) string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		if x == nil {
			parts[i] = "null"
			continue
		}
		parts[i] = f(*x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
