// Package relief runs the two batch stages of the disaster-message
// classifier: building a cleaned dataset from raw CSV inputs, and training,
// evaluating and saving a multi-label model from that dataset.
package relief

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cognicore/relief/internal/records"
	"github.com/cognicore/relief/pkg/relief/dataset"
	"github.com/cognicore/relief/pkg/relief/evaluate"
	"github.com/cognicore/relief/pkg/relief/metrics"
	"github.com/cognicore/relief/pkg/relief/model"
	"github.com/cognicore/relief/pkg/relief/store"
)

var ErrNoStore = errors.New("no store configured")

// BuildOptions configures BuildDataset
type BuildOptions struct {
	MessagesPath   string
	CategoriesPath string
	Store          store.Store
	Table          string // defaults to store.DefaultTable
	Key            string // defaults to "id"
	Rules          dataset.Rules
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
}

// BuildResult summarizes a dataset build
type BuildResult struct {
	Join    dataset.JoinStats
	Clean   dataset.CleanStats
	Columns []string
	Rows    int
}

// BuildDataset loads both CSV files, joins them on the key, expands and
// cleans the categories and replaces the table in the store.
func BuildDataset(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	log, rec := logger(opts.Logger), recorder(opts.Metrics)
	table := orDefault(opts.Table, store.DefaultTable)
	key := orDefault(opts.Key, "id")

	log.Info("loading data", "messages", opts.MessagesPath, "categories", opts.CategoriesPath)
	start := time.Now()
	messages, err := records.LoadCSV(opts.MessagesPath)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	categories, err := records.LoadCSV(opts.CategoriesPath)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	rec.RowsRead.WithLabelValues("messages").Add(float64(messages.Len()))
	rec.RowsRead.WithLabelValues("categories").Add(float64(categories.Len()))

	joined, js, err := dataset.Join(messages, categories, key)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	rec.RowsJoined.Set(float64(js.Joined))
	rec.RowsUnmatched.WithLabelValues("messages").Add(float64(js.UnmatchedLeft))
	rec.RowsUnmatched.WithLabelValues("categories").Add(float64(js.UnmatchedRight))
	rec.ObserveStage("load", start)
	if js.UnmatchedLeft > 0 || js.UnmatchedRight > 0 {
		log.Warn("rows without a join partner dropped",
			"messages", js.UnmatchedLeft, "categories", js.UnmatchedRight)
	}

	log.Info("cleaning data", "rows", js.Joined)
	start = time.Now()
	ds, cs, err := dataset.Clean(joined, opts.Rules)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	rec.Duplicates.Add(float64(cs.Duplicates))
	rec.Collapsed.Add(float64(cs.Collapsed))
	rec.DroppedColumns.Set(float64(len(cs.DroppedColumns)))
	rec.ObserveStage("clean", start)
	log.Debug("cleaned", "duplicates", cs.Duplicates, "dropped", cs.DroppedColumns, "collapsed", cs.Collapsed)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("saving data", "table", table, "rows", ds.Len())
	start = time.Now()
	if err := opts.Store.ReplaceDataset(ctx, table, ds); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	rec.DatasetRows.Set(float64(ds.Len()))
	rec.ObserveStage("save", start)
	log.Info("cleaned data saved", "table", table)

	return &BuildResult{Join: js, Clean: cs, Columns: ds.Columns(), Rows: ds.Len()}, nil
}

// TrainOptions configures Train
type TrainOptions struct {
	Store         store.Store
	Table         string // defaults to store.DefaultTable
	MessageColumn string // defaults to "message"
	FirstLabel    int    // position of the first label column
	TestSize      float64
	Seed          int64
	Model         model.Config // Labels are taken from the table
	ModelPath     string       // empty skips saving
	Report        io.Writer    // receives the classification report; nil discards it
	Logger        *slog.Logger
	Metrics       *metrics.Recorder
}

// TrainResult is the outcome of a training run
type TrainResult struct {
	Pipeline  *model.Pipeline
	Report    *evaluate.ClassificationReport
	TrainRows int
	TestRows  int
}

// Train loads the cleaned table, fits the pipeline on a seeded train
// partition, scores it on the held-out partition and saves it.
func Train(ctx context.Context, opts TrainOptions) (*TrainResult, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	log, rec := logger(opts.Logger), recorder(opts.Metrics)
	table := orDefault(opts.Table, store.DefaultTable)

	log.Info("loading data", "table", table)
	start := time.Now()
	frame, err := opts.Store.LoadTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	texts, err := frame.Strings(orDefault(opts.MessageColumn, "message"))
	if err != nil {
		return nil, err
	}
	y, names, err := frame.Labels(opts.FirstLabel)
	if err != nil {
		return nil, err
	}
	rec.ObserveStage("load", start)

	train, test, err := evaluate.TrainTestSplit(len(texts), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	rec.SplitRows.WithLabelValues("train").Set(float64(len(train)))
	rec.SplitRows.WithLabelValues("test").Set(float64(len(test)))

	log.Info("building model", "labels", len(names),
		"learning_rate", opts.Model.Boost.LearningRate, "n_estimators", opts.Model.Boost.NEstimators)
	cfg := opts.Model
	cfg.Labels = names
	pipe, err := model.Build(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("training model", "rows", len(train))
	start = time.Now()
	if err := pipe.Fit(ctx, evaluate.Select(texts, train), evaluate.Select(y, train)); err != nil {
		return nil, err
	}
	rec.Vocabulary.Set(float64(pipe.Vectorizer.Dim()))
	rec.ObserveStage("fit", start)

	log.Info("evaluating model", "rows", len(test))
	start = time.Now()
	pred, err := pipe.Predict(evaluate.Select(texts, test))
	if err != nil {
		return nil, err
	}
	report, err := evaluate.Report(evaluate.Select(y, test), pred, names)
	if err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		rec.LabelF1.WithLabelValues(row.Label).Set(row.F1)
	}
	rec.ObserveStage("evaluate", start)
	if opts.Report != nil {
		if _, err := io.WriteString(opts.Report, report.String()); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	if opts.ModelPath != "" {
		log.Info("saving model", "path", opts.ModelPath, "id", pipe.ID)
		if err := pipe.Save(opts.ModelPath); err != nil {
			return nil, err
		}
		log.Info("trained model saved")
	}

	return &TrainResult{Pipeline: pipe, Report: report, TrainRows: len(train), TestRows: len(test)}, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

func recorder(r *metrics.Recorder) *metrics.Recorder {
	if r == nil {
		return metrics.New()
	}
	return r
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
