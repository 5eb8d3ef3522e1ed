// Package model composes tokenizing, TF-IDF vectorizing and per-label
// boosting into one fitted pipeline that can be saved and reloaded.
package model

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/relief/pkg/relief/boost"
	"github.com/cognicore/relief/pkg/relief/features"
	"github.com/cognicore/relief/pkg/relief/multioutput"
	"github.com/cognicore/relief/pkg/relief/text"
)

var (
	ErrNotFitted = errors.New("pipeline is not fitted")
	ErrShape     = errors.New("texts and labels do not line up")
	ErrNoLabels  = errors.New("pipeline needs at least one label")
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// TextConfig is the tokenizer state stored with a fitted pipeline
type TextConfig struct {
	Stopwords   []string          `msgpack:"stopwords"`
	Lemmas      []text.LemmaEntry `msgpack:"lemmas"`
	Nouns       []string          `msgpack:"nouns,omitempty"` // nil uses the built-in list
	StripMarkup bool              `msgpack:"strip_markup"`
}

// Config assembles an unfitted pipeline
type Config struct {
	Tokenizer  *text.Tokenizer // nil uses text.DefaultTokenizer
	Vectorizer features.Options
	Boost      boost.Params
	Workers    int // concurrent label fits; <= 0 uses every CPU
	Labels     []string
}

// Pipeline maps raw message text to one binary prediction per label
type Pipeline struct {
	ID         string
	CreatedAt  time.Time
	Labels     []string
	Vectorizer *features.Vectorizer
	Classifier *multioutput.Classifier

	tokenizer *text.Tokenizer
	params    boost.Params
	workers   int
}

// Build validates cfg and returns an unfitted pipeline
func Build(cfg Config) (*Pipeline, error) {
	if len(cfg.Labels) == 0 {
		return nil, ErrNoLabels
	}
	if err := cfg.Boost.Validate(); err != nil {
		return nil, err
	}
	tok := cfg.Tokenizer
	if tok == nil {
		tok = text.DefaultTokenizer()
	}
	return &Pipeline{
		Labels:     append([]string(nil), cfg.Labels...),
		Vectorizer: features.NewVectorizer(cfg.Vectorizer),
		tokenizer:  tok,
		params:     cfg.Boost,
		workers:    cfg.Workers,
	}, nil
}

// Tokenizer returns the tokenizer applied to every text
func (p *Pipeline) Tokenizer() *text.Tokenizer {
	return p.tokenizer
}

// Fitted reports whether Fit or Load produced a classifier
func (p *Pipeline) Fitted() bool {
	return p.Classifier != nil
}

// Fit learns the vocabulary and one booster per label. y has one row per
// text and one column per label.
func (p *Pipeline) Fit(ctx context.Context, texts []string, y [][]int) error {
	if len(texts) != len(y) {
		return fmt.Errorf("%w: %d texts, %d label rows", ErrShape, len(texts), len(y))
	}
	for i, row := range y {
		if len(row) != len(p.Labels) {
			return fmt.Errorf("%w: row %d has %d labels, want %d", ErrShape, i, len(row), len(p.Labels))
		}
	}

	x, err := p.Vectorizer.FitTransform(p.tokenize(texts))
	if err != nil {
		return fmt.Errorf("vectorize: %w", err)
	}
	clf, err := multioutput.Fit(ctx, x, y, p.params, p.workers)
	if err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}

	p.Classifier = clf
	p.CreatedAt = time.Now().UTC()
	p.ID = newID(p.CreatedAt)
	return nil
}

// Transform tokenizes and vectorizes texts with the fitted vocabulary
func (p *Pipeline) Transform(texts []string) (*features.Matrix, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	return p.Vectorizer.Transform(p.tokenize(texts)), nil
}

// Predict returns one label vector per text
func (p *Pipeline) Predict(texts []string) ([][]int, error) {
	x, err := p.Transform(texts)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(x), nil
}

// PredictText classifies a single message, keyed by label name
func (p *Pipeline) PredictText(msg string) (map[string]int, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	v := p.Vectorizer.TransformOne(p.tokenizer.Tokenize(msg))
	pred := p.Classifier.PredictOne(v)
	out := make(map[string]int, len(p.Labels))
	for j, name := range p.Labels {
		out[name] = pred[j]
	}
	return out, nil
}

// Probabilities returns the positive-class probability per label for one message
func (p *Pipeline) Probabilities(msg string) (map[string]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	v := p.Vectorizer.TransformOne(p.tokenizer.Tokenize(msg))
	probs := p.Classifier.PredictProba(v)
	out := make(map[string]float64, len(p.Labels))
	for j, name := range p.Labels {
		out[name] = probs[j]
	}
	return out, nil
}

func (p *Pipeline) tokenize(texts []string) [][]string {
	docs := make([][]string, len(texts))
	for i, t := range texts {
		docs[i] = p.tokenizer.Tokenize(t)
	}
	return docs
}

func (p *Pipeline) textConfig() TextConfig {
	var (
		lemmas []text.LemmaEntry
		nouns  []string
	)
	if l := p.tokenizer.Lemmatizer(); l != nil {
		lemmas = l.Entries()
		nouns = l.Nouns()
	}
	return TextConfig{
		Stopwords:   p.tokenizer.Stopwords(),
		Lemmas:      lemmas,
		Nouns:       nouns,
		StripMarkup: p.tokenizer.StripsMarkup(),
	}
}

func (c TextConfig) tokenizer() *text.Tokenizer {
	tok := text.NewTokenizer(c.Stopwords)
	if c.Lemmas != nil {
		l := text.NewLemmatizer(c.Lemmas)
		if c.Nouns != nil {
			l.SetNouns(c.Nouns)
		}
		tok.SetLemmatizer(l)
	}
	tok.SetStripMarkup(c.StripMarkup)
	return tok
}
