package features

import (
	"errors"
	"math"
	"sort"
	"sync"
)

var ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain only stopwords or no tokens")

// Vectorizer converts token lists into L2-normalized TF-IDF vectors over
// the vocabulary seen during Fit.
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// where n is the number of fitted documents and df(t) the number of those
// containing t. Term frequency is the raw count; with Sublinear it is
// 1 + ln(count).
type Vectorizer struct {
	Terms       []string  `msgpack:"terms"` // sorted; position is the feature index
	IDF         []float64 `msgpack:"idf"`
	MinDF       int       `msgpack:"min_df"`
	MaxFeatures int       `msgpack:"max_features"`
	Sublinear   bool      `msgpack:"sublinear"`

	once  sync.Once
	index map[string]int
}

// Options configures a Vectorizer
type Options struct {
	MinDF       int  // drop terms in fewer documents; <= 1 keeps all
	MaxFeatures int  // keep the most frequent terms; 0 keeps all
	Sublinear   bool // use 1 + ln(tf)
}

// NewVectorizer creates an unfitted vectorizer
func NewVectorizer(opts Options) *Vectorizer {
	return &Vectorizer{MinDF: opts.MinDF, MaxFeatures: opts.MaxFeatures, Sublinear: opts.Sublinear}
}

// Fit learns the vocabulary and IDF weights from docs
func (v *Vectorizer) Fit(docs [][]string) error {
	df := make(map[string]int64)
	tf := make(map[string]int64)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			tf[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for tok, n := range df {
		if v.MinDF > 1 && n < int64(v.MinDF) {
			continue
		}
		terms = append(terms, tok)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if tf[terms[i]] != tf[terms[j]] {
				return tf[terms[i]] > tf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.Terms = terms
	v.IDF = make([]float64, len(terms))
	v.index = make(map[string]int, len(terms))
	for i, t := range terms {
		v.IDF[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
		v.index[t] = i
	}
	return nil
}

// Dim returns the vocabulary size
func (v *Vectorizer) Dim() int {
	return len(v.Terms)
}

// Index returns the feature index of a term
func (v *Vectorizer) Index(term string) (int, bool) {
	v.buildIndex()
	i, ok := v.index[term]
	return i, ok
}

func (v *Vectorizer) buildIndex() {
	v.once.Do(func() {
		if v.index != nil {
			return
		}
		v.index = make(map[string]int, len(v.Terms))
		for i, t := range v.Terms {
			v.index[t] = i
		}
	})
}

// Transform vectorizes docs; terms outside the vocabulary are ignored
func (v *Vectorizer) Transform(docs [][]string) *Matrix {
	m := &Matrix{Rows: make([]SparseVector, len(docs)), Dim: v.Dim()}
	for i, tokens := range docs {
		m.Rows[i] = v.TransformOne(tokens)
	}
	return m
}

// TransformOne vectorizes a single document
func (v *Vectorizer) TransformOne(tokens []string) SparseVector {
	v.buildIndex()

	counts := make(map[int]float64)
	for _, tok := range tokens {
		if i, ok := v.index[tok]; ok {
			counts[i]++
		}
	}

	vec := SparseVector{
		Indices: make([]int32, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		vec.Indices = append(vec.Indices, int32(i))
	}
	sort.Slice(vec.Indices, func(a, b int) bool { return vec.Indices[a] < vec.Indices[b] })

	for _, i := range vec.Indices {
		tf := counts[int(i)]
		if v.Sublinear {
			tf = 1 + math.Log(tf)
		}
		vec.Values = append(vec.Values, tf*v.IDF[i])
	}

	if norm := vec.Norm(); norm > 0 {
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}

// FitTransform fits on docs and returns their vectors
func (v *Vectorizer) FitTransform(docs [][]string) (*Matrix, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs), nil
}
