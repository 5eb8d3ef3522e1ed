package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/relief/pkg/relief/dataset"
	"github.com/cognicore/relief/pkg/relief/store"
)

func TestMemStoreReplace(t *testing.T) {
	ctx := context.Background()
	st := New()

	first := &dataset.Dataset{
		BaseColumns: []string{"id", "message"},
		Categories:  []string{"related"},
		Records: []dataset.Record{
			{Base: []string{"1", "a"}, Labels: []int{1}},
			{Base: []string{"2", "b"}, Labels: []int{0}},
		},
	}
	require.NoError(t, st.ReplaceDataset(ctx, store.DefaultTable, first))

	second := &dataset.Dataset{
		BaseColumns: []string{"id", "message"},
		Categories:  []string{"related"},
		Records:     []dataset.Record{{Base: []string{"3", "c"}, Labels: []int{1}}},
	}
	require.NoError(t, st.ReplaceDataset(ctx, store.DefaultTable, second))

	frame, err := st.LoadTable(ctx, store.DefaultTable)
	require.NoError(t, err)
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, int64(3), frame.Rows[0][0])

	// mutating the copy leaves the store untouched
	frame.Rows[0][0] = int64(99)
	again, err := st.LoadTable(ctx, store.DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, int64(3), again.Rows[0][0])
}

func TestMemStoreMissing(t *testing.T) {
	_, err := New().LoadTable(context.Background(), "nope")
	assert.True(t, errors.Is(err, store.ErrTableNotFound))
}
