package model

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cognicore/relief/pkg/relief/features"
	"github.com/cognicore/relief/pkg/relief/multioutput"
)

// FormatVersion is written into every artifact; Load rejects other versions
const FormatVersion = 1

var ErrFormat = errors.New("unsupported model artifact")

type artifact struct {
	Format     int                     `msgpack:"format"`
	ID         string                  `msgpack:"id"`
	CreatedAt  time.Time               `msgpack:"created_at"`
	Labels     []string                `msgpack:"labels"`
	Text       TextConfig              `msgpack:"text"`
	Vectorizer *features.Vectorizer    `msgpack:"vectorizer"`
	Classifier *multioutput.Classifier `msgpack:"classifier"`
}

// Save writes the fitted pipeline to path, replacing any existing file
func (p *Pipeline) Save(path string) error {
	if !p.Fitted() {
		return ErrNotFitted
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".relief-model-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	err = msgpack.NewEncoder(w).Encode(&artifact{
		Format:     FormatVersion,
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		Labels:     p.Labels,
		Text:       p.textConfig(),
		Vectorizer: p.Vectorizer,
		Classifier: p.Classifier,
	})
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		// CreateTemp makes the file owner-only
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load reads a pipeline written by Save
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var a artifact
	if err := msgpack.NewDecoder(bufio.NewReader(f)).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrFormat, path, err)
	}
	if a.Format != FormatVersion {
		return nil, fmt.Errorf("%w: format %d, want %d", ErrFormat, a.Format, FormatVersion)
	}
	if a.Vectorizer == nil || a.Classifier == nil {
		return nil, fmt.Errorf("%w: %s has no fitted model", ErrFormat, path)
	}
	if a.Classifier.NumLabels() != len(a.Labels) {
		return nil, fmt.Errorf("%w: %d estimators for %d labels", ErrFormat, a.Classifier.NumLabels(), len(a.Labels))
	}

	p := &Pipeline{
		ID:         a.ID,
		CreatedAt:  a.CreatedAt,
		Labels:     a.Labels,
		Vectorizer: a.Vectorizer,
		Classifier: a.Classifier,
		tokenizer:  a.Text.tokenizer(),
	}
	if len(a.Classifier.Estimators) > 0 {
		p.params = a.Classifier.Estimators[0].Params
	}
	return p, nil
}
