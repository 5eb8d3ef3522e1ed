package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/relief/internal/records"
)

func TestJoinInner(t *testing.T) {
	left := &records.Table{
		Columns: []string{"id", "message"},
		Rows: [][]string{
			{"1", "one"},
			{"2", "two"},
			{"3", "three"},
		},
	}
	right := &records.Table{
		Columns: []string{"id", "categories"},
		Rows: [][]string{
			{"3", "c3"},
			{"1", "c1"},
			{"9", "c9"},
		},
	}

	out, stats, err := Join(left, right, "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "message", "categories"}, out.Columns)
	assert.Equal(t, [][]string{{"1", "one", "c1"}, {"3", "three", "c3"}}, out.Rows)
	assert.Equal(t, JoinStats{Left: 3, Right: 3, Joined: 2, UnmatchedLeft: 1, UnmatchedRight: 1}, stats)

	// every joined id exists on both sides
	ids, _ := out.Column("id")
	leftIDs, _ := left.Column("id")
	rightIDs, _ := right.Column("id")
	for _, id := range ids {
		assert.Contains(t, leftIDs, id)
		assert.Contains(t, rightIDs, id)
	}
}

func TestJoinManyToMany(t *testing.T) {
	left := &records.Table{
		Columns: []string{"id", "message"},
		Rows:    [][]string{{"1", "a"}, {"1", "b"}},
	}
	right := &records.Table{
		Columns: []string{"id", "categories"},
		Rows:    [][]string{{"1", "x"}, {"1", "y"}},
	}

	out, _, err := Join(left, right, "id")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "a", "x"},
		{"1", "a", "y"},
		{"1", "b", "x"},
		{"1", "b", "y"},
	}, out.Rows)
}

func TestJoinMissingKey(t *testing.T) {
	left := &records.Table{Columns: []string{"message"}}
	right := &records.Table{Columns: []string{"id", "categories"}}

	_, _, err := Join(left, right, "id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	_, _, err = Join(right, left, "id")
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestParseFlag(t *testing.T) {
	cases := []struct {
		in   string
		want Flag
		ok   bool
	}{
		{"related-1", Flag{"related", 1}, true},
		{"related-2", Flag{"related", 2}, true},
		{"aid_related-0", Flag{"aid_related", 0}, true},
		{"related-x", Flag{}, false},
		{"r", Flag{}, false},
	}
	for _, tc := range cases {
		got, err := ParseFlag(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestDeriveSchema(t *testing.T) {
	s, err := DeriveSchema("related-1;request-0;offer-0", ";")
	require.NoError(t, err)
	assert.Equal(t, []string{"related", "request", "offer"}, s.Names())

	vals, err := s.Decode("related-0;request-1;offer-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, vals)

	_, err = DeriveSchema("a-1;a-0", ";")
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}
