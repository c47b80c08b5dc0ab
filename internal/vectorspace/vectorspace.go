package vectorspace

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyCorpus is returned when there is no non-empty text to fit
// on. Scoring is undefined without a vocabulary, so this is terminal
// for a run.
var ErrEmptyCorpus = errors.New("vector space: empty corpus")

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Projector maps text into the shared vector space. It is the seam for
// substituting a different embedding backend without touching the
// scorer or ranker.
type Projector interface {
	Project(text string) []float64
	Dimension() int
}

// VectorSpace is a fitted term-weighted space: a fixed vocabulary with
// one smoothed inverse-document-frequency weight per term. It is built
// once over the full corpus plus the query and read-only afterwards,
// so it may be shared across concurrent scorers without locking.
type VectorSpace struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
}

// Fit builds the vocabulary and IDF weights from the corpus. Every
// text that participates in scoring, including the query, must be in
// the corpus; projection never extends the vocabulary afterwards.
func Fit(corpus []string) (*VectorSpace, error) {
	df := make(map[string]int)
	nonEmpty := 0
	for _, text := range corpus {
		tokens := Tokenize(text)
		if len(tokens) > 0 {
			nonEmpty++
		}
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if nonEmpty == 0 || len(df) == 0 {
		return nil, ErrEmptyCorpus
	}

	// Sorted terms give a stable component order across runs.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vs := &VectorSpace{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		dimension:  len(terms),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		vs.vocabulary[term] = i
		// Smoothed IDF keeps every weight finite and positive, even
		// for terms present in all texts.
		vs.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return vs, nil
}

// Dimension returns the number of vocabulary terms.
func (v *VectorSpace) Dimension() int { return v.dimension }

// Project computes the L2-normalized term-weighted vector for a text.
// Out-of-vocabulary terms contribute nothing; a text with no overlap
// yields the zero vector.
func (v *VectorSpace) Project(text string) []float64 {
	vec := make([]float64, v.dimension)
	counts := make(map[int]int)
	for _, tok := range Tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return vec
	}
	for idx, count := range counts {
		vec[idx] = float64(count) * v.idf[idx]
	}
	normalize(vec)
	return vec
}

// Cosine is the similarity of two L2-normalized vectors: their dot
// product. With non-negative weights the result lies in [0, 1]; a zero
// vector scores 0 against anything.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	dot := 0.0
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	// Guard against float drift pushing a self-similarity above 1.
	if dot > 1 {
		dot = 1
	}
	return dot
}

// Tokenize lowercases and extracts word tokens, stripping punctuation.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalize(vec []float64) {
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
}
