package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/relief/pkg/relief/text"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// Loader loads the text configuration files and constructs the tokenizer
type Loader struct {
	StoplistPath string
	LemmaPath    string
	NounPath     string
	StripMarkup  bool
}

// Components holds the loaded text components
type Components struct {
	Tokenizer  *text.Tokenizer
	Lemmatizer *text.Lemmatizer
}

// Load reads the configured files. Empty paths fall back to the built-in
// English stopwords, lemma exceptions and noun list.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = text.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = text.NewTokenizer(text.DefaultStopwords())
	}

	if l.LemmaPath != "" {
		entries, err := text.LoadLemmas(l.LemmaPath)
		if err != nil {
			return nil, fmt.Errorf("load lemmas: %w", err)
		}
		comp.Lemmatizer = text.NewLemmatizer(entries)
	} else {
		comp.Lemmatizer = text.DefaultLemmatizer()
	}

	if l.NounPath != "" {
		nouns, err := text.LoadNouns(l.NounPath)
		if err != nil {
			return nil, fmt.Errorf("load nouns: %w", err)
		}
		comp.Lemmatizer.SetNouns(nouns)
	}

	comp.Tokenizer.SetLemmatizer(comp.Lemmatizer)
	comp.Tokenizer.SetStripMarkup(l.StripMarkup)
	return comp, nil
}
