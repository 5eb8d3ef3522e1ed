package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/relief/pkg/relief/boost"
	"github.com/cognicore/relief/pkg/relief/dataset"
	"github.com/cognicore/relief/pkg/relief/features"
	"github.com/cognicore/relief/pkg/relief/store"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the YAML configuration shared by the relief commands
type Config struct {
	Dataset    Dataset      `yaml:"dataset"`
	Text       Text         `yaml:"text"`
	Vectorizer Vectorizer   `yaml:"vectorizer"`
	Boost      boost.Params `yaml:"boost"`
	Train      Train        `yaml:"train"`
}

// Dataset configures join, cleaning and the output table
type Dataset struct {
	Table            string                 `yaml:"table"`
	Key              string                 `yaml:"key"`
	CategoryColumn   string                 `yaml:"category_column"`
	Delimiter        string                 `yaml:"delimiter"`
	Categories       []string               `yaml:"categories"`
	DropColumns      []string               `yaml:"drop_columns"`
	DropZeroVariance bool                   `yaml:"drop_zero_variance"`
	Collapse         map[string]map[int]int `yaml:"collapse"`
}

// Text configures tokenization
type Text struct {
	Stoplist    string `yaml:"stoplist"` // empty uses the built-in English list
	Lemmas      string `yaml:"lemmas"`   // empty uses the built-in exceptions
	Nouns       string `yaml:"nouns"`    // empty uses the built-in noun list
	StripMarkup bool   `yaml:"strip_markup"`
}

// Vectorizer configures TF-IDF
type Vectorizer struct {
	MinDF       int  `yaml:"min_df"`
	MaxFeatures int  `yaml:"max_features"`
	Sublinear   bool `yaml:"sublinear"`
}

// Train configures the training run
type Train struct {
	MessageColumn string  `yaml:"message_column"`
	FirstLabel    int     `yaml:"first_label"` // index of the first label column in the table
	TestSize      float64 `yaml:"test_size"`
	Seed          int64   `yaml:"seed"`
	Workers       int     `yaml:"workers"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	rules := dataset.DefaultRules()
	p := boost.DefaultParams()
	p.LearningRate = 0.5
	p.NEstimators = 100
	return Config{
		Dataset: Dataset{
			Table:          store.DefaultTable,
			Key:            "id",
			CategoryColumn: rules.CategoryColumn,
			Delimiter:      rules.Delimiter,
			DropColumns:    rules.DropColumns,
			Collapse:       rules.Collapse,
		},
		Vectorizer: Vectorizer{MinDF: 1},
		Boost:      p,
		Train: Train{
			MessageColumn: "message",
			FirstLabel:    4,
			TestSize:      0.2,
			Seed:          123,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. A collapse mapping in the file replaces the default
// one as a whole, so `collapse: {}` turns collapsing off.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	// yaml.v3 merges into a non-nil map; an empty mapping still allocates one
	cfg.Dataset.Collapse = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Dataset.Collapse == nil {
		cfg.Dataset.Collapse = Default().Dataset.Collapse
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	switch {
	case c.Dataset.Table == "":
		return fmt.Errorf("%w: dataset.table is empty", ErrInvalid)
	case c.Dataset.Key == "":
		return fmt.Errorf("%w: dataset.key is empty", ErrInvalid)
	case c.Train.MessageColumn == "":
		return fmt.Errorf("%w: train.message_column is empty", ErrInvalid)
	case c.Train.FirstLabel < 0:
		return fmt.Errorf("%w: train.first_label must be >= 0", ErrInvalid)
	case c.Train.TestSize <= 0 || c.Train.TestSize >= 1:
		return fmt.Errorf("%w: train.test_size must be in (0,1), got %v", ErrInvalid, c.Train.TestSize)
	case c.Vectorizer.MaxFeatures < 0:
		return fmt.Errorf("%w: vectorizer.max_features must be >= 0", ErrInvalid)
	}
	if err := c.Boost.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Rules returns the cleaning rules
func (c Config) Rules() dataset.Rules {
	return dataset.Rules{
		CategoryColumn:   c.Dataset.CategoryColumn,
		Delimiter:        c.Dataset.Delimiter,
		Categories:       c.Dataset.Categories,
		DropColumns:      c.Dataset.DropColumns,
		DropZeroVariance: c.Dataset.DropZeroVariance,
		Collapse:         c.Dataset.Collapse,
	}
}

// VectorizerOptions returns the TF-IDF options
func (c Config) VectorizerOptions() features.Options {
	return features.Options{
		MinDF:       c.Vectorizer.MinDF,
		MaxFeatures: c.Vectorizer.MaxFeatures,
		Sublinear:   c.Vectorizer.Sublinear,
	}
}

// Loader returns a loader for the configured text files
func (c Config) Loader() *Loader {
	return &Loader{
		StoplistPath: c.Text.Stoplist,
		LemmaPath:    c.Text.Lemmas,
		NounPath:     c.Text.Nouns,
		StripMarkup:  c.Text.StripMarkup,
	}
}
