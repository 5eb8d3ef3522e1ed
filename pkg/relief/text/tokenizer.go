package text

import (
	_ "embed"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed stopwords-en.yaml
var defaultStopwords []byte

// DefaultStopwords returns the built-in English stopword list
func DefaultStopwords() []string {
	var sl struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(defaultStopwords, &sl); err != nil {
		panic("text: embedded stopword list: " + err.Error())
	}
	return sl.Terms
}

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords   map[string]struct{}
	lemmatizer  *Lemmatizer // Optional: reduces tokens to base form
	stripMarkup bool
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// DefaultTokenizer uses the English stopwords and lemma exceptions
func DefaultTokenizer() *Tokenizer {
	t := NewTokenizer(DefaultStopwords())
	t.SetLemmatizer(DefaultLemmatizer())
	return t
}

// SetLemmatizer assigns a lemmatizer applied to surviving tokens
func (t *Tokenizer) SetLemmatizer(l *Lemmatizer) {
	t.lemmatizer = l
}

// Lemmatizer returns the assigned lemmatizer, or nil
func (t *Tokenizer) Lemmatizer() *Lemmatizer {
	return t.lemmatizer
}

// SetStripMarkup toggles HTML removal before tokenizing
func (t *Tokenizer) SetStripMarkup(on bool) {
	t.stripMarkup = on
}

// StripsMarkup reports whether HTML is removed before tokenizing
func (t *Tokenizer) StripsMarkup() bool {
	return t.stripMarkup
}

// Tokenize lower-cases text, splits it into words, drops stopwords and any
// token with a non-letter in it, then lemmatizes what is left.
func (t *Tokenizer) Tokenize(text string) []string {
	if t.stripMarkup {
		text = StripMarkup(text)
	}

	var tokens []string
	for _, word := range WordTokenize(strings.ToLower(text)) {
		if t.isStopword(word) || !isAlpha(word) {
			continue
		}
		if t.lemmatizer != nil {
			word = t.lemmatizer.Lemmatize(word)
		}
		word = strings.TrimSpace(word)
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// WordTokenize splits text into words and punctuation marks. Trailing and
// leading punctuation become separate tokens, and English clitics are split
// off the word they attach to: "don't" -> "do", "n't"; "it's" -> "it", "'s".
func WordTokenize(text string) []string {
	var tokens []string
	for _, chunk := range strings.FieldsFunc(text, unicode.IsSpace) {
		tokens = appendChunk(tokens, chunk)
	}
	return tokens
}

func appendChunk(tokens []string, chunk string) []string {
	runes := []rune(chunk)

	start := 0
	for start < len(runes) && isBoundaryPunct(runes[start]) {
		tokens = append(tokens, string(runes[start]))
		start++
	}
	end := len(runes)
	var trailing []string
	for end > start && isBoundaryPunct(runes[end-1]) {
		trailing = append(trailing, string(runes[end-1]))
		end--
	}

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = appendWord(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range runes[start:end] {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		flush()
		tokens = append(tokens, string(r))
	}
	flush()

	for i := len(trailing) - 1; i >= 0; i-- {
		tokens = append(tokens, trailing[i])
	}
	return tokens
}

var clitics = []string{"'s", "'re", "'ve", "'ll", "'d", "'m"}

// appendWord splits a trailing clitic off word
func appendWord(tokens []string, word string) []string {
	if strings.HasSuffix(word, "n't") && len(word) > 3 {
		return append(tokens, word[:len(word)-3], "n't")
	}
	for _, c := range clitics {
		if strings.HasSuffix(word, c) && len(word) > len(c) {
			return append(tokens, word[:len(word)-len(c)], c)
		}
	}
	return append(tokens, word)
}

// isWordRune reports runes kept inside a word: letters, digits and the
// joiners in "u.s.", "re-use" and "don't"
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) ||
		r == '-' || r == '\'' || r == '.'
}

// isBoundaryPunct reports runes peeled off the ends of a chunk
func isBoundaryPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// Stopwords returns the stopword list in sorted order
func (t *Tokenizer) Stopwords() []string {
	out := make([]string, 0, len(t.stopwords))
	for w := range t.stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
