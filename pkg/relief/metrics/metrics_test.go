package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.RowsRead.WithLabelValues("messages").Add(3)
	r.RowsJoined.Set(2)
	r.Duplicates.Inc()
	r.LabelF1.WithLabelValues("water").Set(0.75)
	r.ObserveStage("fit", time.Now().Add(-time.Second))

	assert.Equal(t, 3.0, testutil.ToFloat64(r.RowsRead.WithLabelValues("messages")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.RowsJoined))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Duplicates))
	assert.Equal(t, 0.75, testutil.ToFloat64(r.LabelF1.WithLabelValues("water")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.StageDuration))
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.DatasetRows.Set(26028)
	r.LabelF1.WithLabelValues("related").Set(0.9)

	path := filepath.Join(t.TempDir(), "relief.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "relief_etl_dataset_rows 26028")
	assert.Contains(t, out, `relief_eval_f1{label="related"} 0.9`)
	assert.Contains(t, out, "# HELP relief_etl_rows_joined")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Duplicates.Add(5)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Duplicates))
}
