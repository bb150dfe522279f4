package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"goldenspoon/internal/embedding"
)

// saturation is the BM25 k1 term-frequency saturation constant. Document
// length normalization is off (b = 0) so long documents such as the full
// menu are not penalized for their size.
const saturation = 1.2

// Embedder is an offline TF-IDF vectorizer. It needs no credentials, which
// makes it useful for running the assistant without a hosted embedding model.
//
// Documents get saturated term weights scaled into the unit ball plus one
// slack component that brings them to unit length. Queries get unit IDF
// weights and a zero slack component. The cosine between the two is then
// proportional to the BM25 score of the document for the query.
type Embedder struct {
	mu           sync.RWMutex
	vocabulary   map[string]int
	idf          []float64
	maxNorm      float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

var (
	_ embedding.Embedder = (*Embedder)(nil)
	_ embedding.Preparer = (*Embedder)(nil)
)

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	maxNorm := 0.0
	for _, text := range corpus {
		maxNorm = math.Max(maxNorm, norm(documentWeights(e.counts(text, vocabulary), idf)))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.vocabulary = vocabulary
	e.idf = idf
	e.maxNorm = maxNorm
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors, 0 before Prepare.
func (e *Embedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.prepared {
		return 0
	}
	return len(e.idf) + 1
}

// Embed computes unit-length vectors for documents or queries.
func (e *Embedder) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if mode == embedding.ModeQuery {
			out[i] = e.queryVector(text)
		} else {
			out[i] = e.documentVector(text)
		}
	}
	return out, nil
}

func (e *Embedder) documentVector(text string) []float64 {
	vec := documentWeights(e.counts(text, e.vocabulary), e.idf)
	scale := e.maxNorm
	if n := norm(vec); n > scale {
		scale = n
	}
	if scale > 0 {
		for i := range vec {
			vec[i] /= scale
		}
	}
	slack := math.Sqrt(math.Max(0, 1-dot(vec, vec)))
	return append(vec, slack)
}

// queryVector is the zero vector when no query term is in the vocabulary.
func (e *Embedder) queryVector(text string) []float64 {
	vec := make([]float64, len(e.idf), len(e.idf)+1)
	for idx, count := range e.counts(text, e.vocabulary) {
		vec[idx] = float64(count) * e.idf[idx]
	}
	if n := norm(vec); n > 0 {
		for i := range vec {
			vec[i] /= n
		}
	}
	return append(vec, 0)
}

func (e *Embedder) counts(text string, vocabulary map[string]int) map[int]int {
	tf := make(map[int]int)
	for _, tok := range e.tokenize(text) {
		if idx, ok := vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	return tf
}

func documentWeights(tf map[int]int, idf []float64) []float64 {
	vec := make([]float64, len(idf), len(idf)+1)
	for idx, count := range tf {
		c := float64(count)
		vec[idx] = idf[idx] * c * (saturation + 1) / (c + saturation)
	}
	return vec
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(v []float64) float64 { return math.Sqrt(dot(v, v)) }

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		t = stem(t)
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// stem strips a few common English suffixes so that "delivery", "delivers"
// and "deliver" share a term. Contractions other than the possessive are
// kept whole.
func stem(t string) string {
	t = strings.ReplaceAll(t, "’", "'")
	if strings.HasSuffix(t, "'s") {
		t = strings.TrimSuffix(t, "'s")
	} else if strings.Contains(t, "'") {
		return t
	}
	switch {
	case len(t) > 4 && strings.HasSuffix(t, "ies"):
		return t[:len(t)-3] + "y"
	case len(t) > 5 && strings.HasSuffix(t, "ery"):
		return t[:len(t)-1]
	case len(t) > 5 && strings.HasSuffix(t, "ing"):
		return t[:len(t)-3]
	case len(t) > 4 && strings.HasSuffix(t, "ed"):
		return t[:len(t)-2]
	case len(t) > 3 && strings.HasSuffix(t, "s") &&
		!strings.HasSuffix(t, "ss") && !strings.HasSuffix(t, "us") && !strings.HasSuffix(t, "is"):
		return t[:len(t)-1]
	}
	return t
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "as", "at",
		"be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
		"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "ourselves",
		"out", "over", "own", "same", "she", "should", "so", "some", "such",
		"than", "that", "the", "their", "theirs", "them", "themselves", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with",
		"would", "you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
