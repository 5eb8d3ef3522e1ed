// Package metrics records pipeline counters in a private Prometheus registry
// and writes them in the text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "relief"

// Recorder holds the ETL and training metrics of one run
type Recorder struct {
	registry *prometheus.Registry

	// ETL
	RowsRead       *prometheus.CounterVec
	RowsUnmatched  *prometheus.CounterVec
	RowsJoined     prometheus.Gauge
	Duplicates     prometheus.Counter
	Collapsed      prometheus.Counter
	DatasetRows    prometheus.Gauge
	DroppedColumns prometheus.Gauge

	// Training
	SplitRows     *prometheus.GaugeVec
	Vocabulary    prometheus.Gauge
	LabelF1       *prometheus.GaugeVec
	StageDuration *prometheus.HistogramVec
}

// New creates a recorder with every metric registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		RowsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "etl",
				Name:      "rows_read_total",
				Help:      "CSV data rows read per input",
			},
			[]string{"input"},
		),
		RowsUnmatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "etl",
				Name:      "rows_unmatched_total",
				Help:      "Rows without a join partner per side",
			},
			[]string{"side"},
		),
		RowsJoined: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "rows_joined",
			Help:      "Rows produced by the inner join",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "duplicates_removed_total",
			Help:      "Exact duplicate rows removed",
		}),
		Collapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "values_collapsed_total",
			Help:      "Category values rewritten by collapse rules",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "dataset_rows",
			Help:      "Rows persisted to the store",
		}),
		DroppedColumns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "dropped_columns",
			Help:      "Category columns dropped during cleaning",
		}),

		SplitRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "train",
				Name:      "rows",
				Help:      "Rows per partition",
			},
			[]string{"partition"},
		),
		Vocabulary: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "train",
			Name:      "vocabulary_size",
			Help:      "Terms in the fitted TF-IDF vocabulary",
		}),
		LabelF1: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "eval",
				Name:      "f1",
				Help:      "Held-out F1 per label",
			},
			[]string{"label"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Wall time per pipeline stage",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"stage"},
		),
	}

	r.registry.MustRegister(
		r.RowsRead,
		r.RowsUnmatched,
		r.RowsJoined,
		r.Duplicates,
		r.Collapsed,
		r.DatasetRows,
		r.DroppedColumns,
		r.SplitRows,
		r.Vocabulary,
		r.LabelF1,
		r.StageDuration,
	)
	return r
}

// ObserveStage records the time elapsed since start under stage
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteFile writes every metric to path in the text exposition format
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
