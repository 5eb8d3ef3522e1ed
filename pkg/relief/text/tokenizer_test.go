package text

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	tok := DefaultTokenizer()

	assert.Equal(t, []string{"water", "needed"}, tok.Tokenize("Water needed"))
	assert.Equal(t, []string{"need", "food", "water", "tent"}, tok.Tokenize("We need food, water and tents!"))
}

func TestTokenizeDropsNonAlpha(t *testing.T) {
	tok := DefaultTokenizer()

	got := tok.Tokenize("The children's houses don't have 2 beds, call 555-1234 or visit u.s. e-mail")
	assert.Equal(t, []string{"child", "house", "bed", "call", "visit"}, got)
	for _, w := range got {
		assert.True(t, isAlpha(w), w)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	tok := DefaultTokenizer()
	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize("   ...  !!  "))
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := DefaultTokenizer()
	msg := "Earthquake destroyed shelters; families need blankets and medicines"
	first := tok.Tokenize(msg)
	for range 5 {
		assert.Equal(t, first, tok.Tokenize(msg))
	}
	assert.Equal(t, []string{"earthquake", "destroyed", "shelter", "family", "need", "blanket", "medicine"}, first)
}

func TestTokenizeStripMarkup(t *testing.T) {
	tok := DefaultTokenizer()
	tok.SetStripMarkup(true)
	assert.Equal(t, []string{"need", "help"}, tok.Tokenize("<p>Need &amp; help</p><script>alert('x')</script>"))

	tok.SetStripMarkup(false)
	assert.Contains(t, tok.Tokenize("<b>hello</b>"), "b")
}

func TestAddRemoveStopword(t *testing.T) {
	tok := NewTokenizer([]string{"the"})

	assert.Equal(t, []string{"cat"}, tok.Tokenize("the cat"))

	tok.RemoveStopword("the")
	assert.Equal(t, []string{"the", "cat"}, tok.Tokenize("the cat"))

	tok.AddStopword("THE")
	assert.Equal(t, []string{"cat"}, tok.Tokenize("the cat"))
	assert.Equal(t, []string{"the"}, tok.Stopwords())
}

func TestWordTokenize(t *testing.T) {
	cases := map[string][]string{
		"hello world":       {"hello", "world"},
		"help!":             {"help", "!"},
		"(urgent) water.":   {"(", "urgent", ")", "water", "."},
		"don't":             {"do", "n't"},
		"it's raining":      {"it", "'s", "raining"},
		"water,food":        {"water", ",", "food"},
		"port-au-prince":    {"port-au-prince"},
		"we'll be there...": {"we", "'ll", "be", "there", ".", ".", "."},
	}
	for in, want := range cases {
		assert.Equal(t, want, WordTokenize(in), in)
	}
}

func TestDefaultStopwords(t *testing.T) {
	stops := DefaultStopwords()
	assert.Len(t, stops, 179)
	assert.Contains(t, stops, "no")
	assert.Contains(t, stops, "don't")
}

func TestLemmatize(t *testing.T) {
	l := DefaultLemmatizer()
	cases := map[string]string{
		"churches":   "church",
		"bushes":     "bush",
		"boxes":      "box",
		"classes":    "class",
		"supplies":   "supply",
		"firemen":    "fireman",
		"houses":     "house",
		"tents":      "tent",
		"virus":      "virus",
		"crisis":     "crisis",
		"crises":     "crisis",
		"children":   "child",
		"women":      "woman",
		"news":       "news",
		"people":     "people",
		"headaches":  "headache",
		"gas":        "gas",
		"water":      "water",
		"buses":      "bus",
		"movies":     "movie",
		"gases":      "gas",
		"glasses":    "glass",
		"always":     "always",
		"perhaps":    "perhaps",
		"sometimes":  "sometimes",
		"afterwards": "afterwards",
		"means":      "means",
		"overseas":   "overseas",
		"whereas":    "whereas",
	}
	for in, want := range cases {
		assert.Equal(t, want, l.Lemmatize(in), in)
	}
}

func TestTokenizeKeepsNonNouns(t *testing.T) {
	tok := DefaultTokenizer()
	assert.Equal(t,
		[]string{"always", "need", "bus", "perhaps", "sometimes", "afterwards"},
		tok.Tokenize("We always need buses, perhaps sometimes afterwards."))
}

func TestLoadNouns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.noun")
	content := `  1 This software and database is being provided to you, the LICENSEE, by
  2 Princeton University under the following license.
tent n 1 2 @ ~ 1 0 04411264
ice_tea n 1 1 @ 1 0 07933530
1-dodecanol n 1 1 @ 1 0 14950541
Cargo n 1 1 @ 1 0 03623556
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	nouns, err := LoadNouns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tent", "cargo"}, nouns)

	l := DefaultLemmatizer()
	assert.Nil(t, l.Nouns())
	l.SetNouns(nouns)
	assert.Equal(t, []string{"cargo", "tent"}, l.Nouns())

	assert.Equal(t, "tent", l.Lemmatize("tents"))
	assert.Equal(t, "houses", l.Lemmatize("houses"))
	assert.Equal(t, "child", l.Lemmatize("children"))

	_, err = LoadNouns(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadLemmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.yaml")
	content := `lemmas:
  - canonical: cactus
    variants: [cacti, Cactuses]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := LoadLemmas(path)
	require.NoError(t, err)
	l := NewLemmatizer(entries)

	assert.Equal(t, "cactus", l.Lemmatize("cacti"))
	assert.Equal(t, "cactus", l.Lemmatize("cactuses"))
	assert.Equal(t, []LemmaEntry{{Canonical: "cactus", Variants: []string{"cacti", "cactuses"}}}, l.Entries())
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "plain text", StripMarkup("plain text"))
	assert.Equal(t, "Tom & Jerry", StripMarkup("Tom &amp; Jerry"))
	assert.Equal(t, "line one line two", StripMarkup("line one<br>line two"))
}
