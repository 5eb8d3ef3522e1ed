package evaluate

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplitReproducible(t *testing.T) {
	train, test, err := TrainTestSplit(101, 0.2, 123)
	require.NoError(t, err)
	assert.Len(t, test, 21)
	assert.Len(t, train, 80)

	train2, test2, err := TrainTestSplit(101, 0.2, 123)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	for i, v := range all {
		require.Equal(t, i, v)
	}

	_, other, err := TrainTestSplit(101, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test, other)
}

func TestTrainTestSplitErrors(t *testing.T) {
	_, _, err := TrainTestSplit(10, 0, 123)
	assert.True(t, errors.Is(err, ErrSplit))
	_, _, err = TrainTestSplit(10, 1, 123)
	assert.True(t, errors.Is(err, ErrSplit))
	_, _, err = TrainTestSplit(1, 0.2, 123)
	assert.True(t, errors.Is(err, ErrSplit))
}

func TestSelect(t *testing.T) {
	assert.Equal(t, []string{"c", "a"}, Select([]string{"a", "b", "c"}, []int{2, 0}))
}

func TestReport(t *testing.T) {
	names := []string{"related", "request", "offer"}
	yTrue := [][]int{
		{1, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
		{1, 1, 0},
	}
	yPred := [][]int{
		{1, 0, 0},
		{1, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
	}

	r, err := Report(yTrue, yPred, names)
	require.NoError(t, err)
	require.Len(t, r.Rows, 3)
	for i, row := range r.Rows {
		assert.Equal(t, names[i], row.Label)
	}

	related, _ := r.Row("related")
	assert.InDelta(t, 0.75, related.Precision, 1e-12)
	assert.InDelta(t, 1.0, related.Recall, 1e-12)
	assert.InDelta(t, 6.0/7.0, related.F1, 1e-12)
	assert.Equal(t, 3, related.Support)

	request, _ := r.Row("request")
	assert.InDelta(t, 1.0, request.Precision, 1e-12)
	assert.InDelta(t, 0.5, request.Recall, 1e-12)
	assert.Equal(t, 2, request.Support)

	offer, _ := r.Row("offer")
	assert.Equal(t, Scores{}, offer)

	// micro: tp=4 fp=1 fn=1
	assert.InDelta(t, 0.8, r.Micro.Precision, 1e-12)
	assert.InDelta(t, 0.8, r.Micro.Recall, 1e-12)
	assert.Equal(t, 5, r.Micro.Support)
	assert.InDelta(t, (0.75+1+0)/3, r.Macro.Precision, 1e-12)
	assert.InDelta(t, (0.75*3+1*2)/5, r.Weighted.Precision, 1e-12)

	// samples: precision 1, 1, 0, 1; recall 0.5, 1, 0, 1
	assert.InDelta(t, 0.75, r.Samples.Precision, 1e-12)
	assert.InDelta(t, 0.625, r.Samples.Recall, 1e-12)
}

func TestReportString(t *testing.T) {
	r, err := Report([][]int{{1, 0}}, [][]int{{1, 0}}, []string{"water", "medical_products"})
	require.NoError(t, err)

	out := r.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Contains(t, lines[0], "precision")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "water"))
	assert.True(t, strings.HasPrefix(lines[3], "medical_products"))
	assert.Contains(t, lines[5], "micro avg")
	assert.Contains(t, lines[8], "samples avg")
}

func TestReportShape(t *testing.T) {
	_, err := Report([][]int{{1}}, nil, []string{"a"})
	assert.True(t, errors.Is(err, ErrShape))
	_, err = Report([][]int{{1}}, [][]int{{1, 0}}, []string{"a"})
	assert.True(t, errors.Is(err, ErrShape))
}
