package text

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lemmas-en.yaml
var defaultLemmas []byte

//go:embed nouns-en.txt
var defaultNouns []byte

var builtinNouns = sync.OnceValue(func() map[string]struct{} {
	words, err := parseNouns(bytes.NewReader(defaultNouns))
	if err != nil {
		panic("text: embedded noun list: " + err.Error())
	}
	return nounSet(words)
})

// Lemmatizer reduces nouns to their dictionary form.
//
// Irregular forms come from an exception lexicon (variant -> canonical).
// Everything else goes through plural detachment rules, tried in order:
//
//	ies -> y    supplies -> supply
//	es  -> ""   buses    -> bus
//	men -> man  firemen  -> fireman
//	s   -> ""   houses   -> house
//
// A candidate is accepted only when it is a known noun. Words that are
// nouns already, or that have no known candidate, come back unchanged.
type Lemmatizer struct {
	// variant -> canonical; canonical forms map to themselves
	reverseIndex map[string]string
	nouns        map[string]struct{}
	custom       bool
}

var detachments = []struct{ suffix, repl string }{
	{"ies", "y"},
	{"es", ""},
	{"men", "man"},
	{"s", ""},
}

// LemmaEntry is one exception group
type LemmaEntry struct {
	Canonical string   `yaml:"canonical" msgpack:"canonical"`
	Variants  []string `yaml:"variants" msgpack:"variants"`
}

// NewLemmatizer creates a lemmatizer with the given exception groups
func NewLemmatizer(entries []LemmaEntry) *Lemmatizer {
	l := &Lemmatizer{reverseIndex: make(map[string]string), nouns: builtinNouns()}
	for _, e := range entries {
		l.AddException(e.Canonical, e.Variants...)
	}
	return l
}

// DefaultLemmatizer returns a lemmatizer with the built-in English exceptions
func DefaultLemmatizer() *Lemmatizer {
	entries, err := parseLemmas(defaultLemmas)
	if err != nil {
		panic("text: embedded lemma list: " + err.Error())
	}
	return NewLemmatizer(entries)
}

// LoadLemmas reads exception groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - canonical: child
//	    variants: [children]
func LoadLemmas(path string) ([]LemmaEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseLemmas(data)
}

// LoadNouns reads a noun dictionary. Each line not starting with
// whitespace or '#' contributes its first field, so plain word lists and
// WordNet index.noun files both work. Multi-word and non-alphabetic
// entries are skipped.
func LoadNouns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseNouns(f)
}

func parseNouns(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		word := strings.ToLower(fields[0])
		if isAlpha(word) {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}

func nounSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func parseLemmas(data []byte) ([]LemmaEntry, error) {
	var doc struct {
		Lemmas []LemmaEntry `yaml:"lemmas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Lemmas, nil
}

// AddException maps every variant, and the canonical form itself, to canonical
func (l *Lemmatizer) AddException(canonical string, variants ...string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if canonical == "" {
		return
	}
	l.reverseIndex[canonical] = canonical
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			l.reverseIndex[v] = canonical
		}
	}
}

// SetNouns replaces the noun dictionary used to accept detached forms
func (l *Lemmatizer) SetNouns(words []string) {
	l.nouns = nounSet(words)
	l.custom = true
}

// Nouns returns the dictionary installed with SetNouns, or nil while the
// built-in list is in use
func (l *Lemmatizer) Nouns() []string {
	if !l.custom {
		return nil
	}
	out := make([]string, 0, len(l.nouns))
	for w := range l.nouns {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func (l *Lemmatizer) isNoun(word string) bool {
	if _, ok := l.nouns[word]; ok {
		return true
	}
	return l.reverseIndex[word] == word
}

// Entries returns the exception lexicon grouped by canonical form
func (l *Lemmatizer) Entries() []LemmaEntry {
	groups := make(map[string][]string)
	for v, c := range l.reverseIndex {
		if v == c {
			if _, ok := groups[c]; !ok {
				groups[c] = nil
			}
			continue
		}
		groups[c] = append(groups[c], v)
	}
	out := make([]LemmaEntry, 0, len(groups))
	for c, vs := range groups {
		sort.Strings(vs)
		out = append(out, LemmaEntry{Canonical: c, Variants: vs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// Lemmatize returns the base form of a lower-case word
func (l *Lemmatizer) Lemmatize(word string) string {
	if canonical, ok := l.reverseIndex[word]; ok {
		return canonical
	}
	if len(word) <= 3 || l.isNoun(word) {
		return word
	}
	for _, d := range detachments {
		base, ok := strings.CutSuffix(word, d.suffix)
		if !ok || base == "" {
			continue
		}
		if candidate := base + d.repl; l.isNoun(candidate) {
			return candidate
		}
	}
	return word
}
