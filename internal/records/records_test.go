package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	content := "\ufeffid,message,original,genre\n" +
		"2,\"Weather update - a cold front from Cuba\",Un front froid,direct\n" +
		"7,\"Is the Hurricane over, or is it not over\",,direct\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tbl, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "message", "original", "genre"}, tbl.Columns)
	assert.Equal(t, 2, tbl.Len())

	msgs, ok := tbl.Column("message")
	require.True(t, ok)
	assert.Equal(t, "Is the Hurricane over, or is it not over", msgs[1])

	idx, ok := tbl.Index("genre")
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = tbl.Index("missing")
	assert.False(t, ok)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadCSVRaggedRows(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id,message\n1,hello,extra\n"))
	require.Error(t, err)
}
