// Package evaluate splits datasets and scores multi-label predictions.
package evaluate

import (
	"errors"
	"fmt"
	"strings"
)

var ErrShape = errors.New("prediction shape mismatch")

// Scores are precision, recall and F1 for the positive class.
// A ratio with a zero denominator is reported as 0.
type Scores struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Row is the report line of one label
type Row struct {
	Label string
	Scores
}

// ClassificationReport holds one row per label, in label order, plus the
// micro, macro, support-weighted and per-sample averages.
type ClassificationReport struct {
	Rows     []Row
	Micro    Scores
	Macro    Scores
	Weighted Scores
	Samples  Scores
}

// Report scores multi-label predictions. yTrue and yPred have one row per
// sample and one column per entry of names.
func Report(yTrue, yPred [][]int, names []string) (*ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d true rows, %d predicted", ErrShape, len(yTrue), len(yPred))
	}
	for i := range yTrue {
		if len(yTrue[i]) != len(names) || len(yPred[i]) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d/%d columns, want %d", ErrShape, i, len(yTrue[i]), len(yPred[i]), len(names))
		}
	}

	tp := make([]int, len(names))
	fp := make([]int, len(names))
	fn := make([]int, len(names))
	var samples Scores
	for i := range yTrue {
		var inter, nTrue, nPred int
		for j := range names {
			t, p := yTrue[i][j] == 1, yPred[i][j] == 1
			switch {
			case t && p:
				tp[j]++
				inter++
			case p:
				fp[j]++
			case t:
				fn[j]++
			}
			if t {
				nTrue++
			}
			if p {
				nPred++
			}
		}
		samples.Precision += ratio(inter, nPred)
		samples.Recall += ratio(inter, nTrue)
		samples.F1 += ratio(2*inter, nTrue+nPred)
	}

	r := &ClassificationReport{Rows: make([]Row, len(names))}
	var sumTP, sumFP, sumFN, total int
	for j, name := range names {
		s := scores(tp[j], fp[j], fn[j])
		r.Rows[j] = Row{Label: name, Scores: s}

		r.Macro.Precision += s.Precision
		r.Macro.Recall += s.Recall
		r.Macro.F1 += s.F1
		r.Weighted.Precision += s.Precision * float64(s.Support)
		r.Weighted.Recall += s.Recall * float64(s.Support)
		r.Weighted.F1 += s.F1 * float64(s.Support)

		sumTP += tp[j]
		sumFP += fp[j]
		sumFN += fn[j]
		total += s.Support
	}

	r.Micro = scores(sumTP, sumFP, sumFN)
	if n := float64(len(names)); n > 0 {
		r.Macro.Precision /= n
		r.Macro.Recall /= n
		r.Macro.F1 /= n
	}
	r.Macro.Support = total
	if total > 0 {
		r.Weighted.Precision /= float64(total)
		r.Weighted.Recall /= float64(total)
		r.Weighted.F1 /= float64(total)
	}
	r.Weighted.Support = total
	if n := float64(len(yTrue)); n > 0 {
		samples.Precision /= n
		samples.Recall /= n
		samples.F1 /= n
	}
	samples.Support = total
	r.Samples = samples
	return r, nil
}

func scores(tp, fp, fn int) Scores {
	return Scores{
		Precision: ratio(tp, tp+fp),
		Recall:    ratio(tp, tp+fn),
		F1:        ratio(2*tp, 2*tp+fp+fn),
		Support:   tp + fn,
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Row returns the scores of one label
func (r *ClassificationReport) Row(label string) (Scores, bool) {
	for _, row := range r.Rows {
		if row.Label == label {
			return row.Scores, true
		}
	}
	return Scores{}, false
}

// String renders the report as a fixed-width table
func (r *ClassificationReport) String() string {
	width := len("weighted avg")
	for _, row := range r.Rows {
		width = max(width, len(row.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	line := func(label string, s Scores) {
		fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, label, s.Precision, s.Recall, s.F1, s.Support)
	}
	for _, row := range r.Rows {
		line(row.Label, row.Scores)
	}
	b.WriteByte('\n')
	line("micro avg", r.Micro)
	line("macro avg", r.Macro)
	line("weighted avg", r.Weighted)
	line("samples avg", r.Samples)
	return b.String()
}
