package nlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Vocabulary is the ordered token list defining feature-vector
// dimensionality. The order is the wire contract with the classifier
// and must never be re-sorted.
type Vocabulary []string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadVocabulary reads a JSON string array, preserving declaration
// order and rejecting duplicates — including two distinct words that
// reduce to the same lemma, which would make their feature slots
// indistinguishable at scoring time.
func LoadVocabulary(path string) (Vocabulary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var words []string
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	seen := make(map[string]struct{}, len(words))
	byLemma := make(map[string]string, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return nil, fmt.Errorf("vocabulary contains an empty word")
		}
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("vocabulary contains duplicate word %q", w)
		}
		seen[w] = struct{}{}

		key := lemma(strings.ToLower(w))
		if prev, dup := byLemma[key]; dup {
			return nil, fmt.Errorf("vocabulary words %q and %q collapse to the same lemma %q", prev, w, key)
		}
		byLemma[key] = w
	}
	return Vocabulary(words), nil
}

// Featurizer turns text into a fixed-length presence vector over a
// fixed vocabulary. Presence only: no counts, no weighting.
type Featurizer struct {
	vocab      Vocabulary
	keys       []string
	normalizer Normalizer
}

func NewFeaturizer(vocab Vocabulary, normalizer Normalizer) *Featurizer {
	if normalizer == nil {
		normalizer = NewSimpleNormalizer()
	}
	// Vocabulary words go through the same lemmatizer as input tokens,
	// otherwise an inflected vocabulary entry could never match.
	keys := make([]string, len(vocab))
	for i, w := range vocab {
		keys[i] = lemma(strings.ToLower(w))
	}
	return &Featurizer{vocab: vocab, keys: keys, normalizer: normalizer}
}

// Width is the feature-vector length.
func (f *Featurizer) Width() int {
	return len(f.vocab)
}

// BagOfWords emits 1 per vocabulary slot whose word appears among the
// normalized tokens of text, in vocabulary order.
func (f *Featurizer) BagOfWords(text string) []float64 {
	present := make(map[string]struct{})
	for _, tok := range f.normalizer.Tokens(text) {
		present[tok] = struct{}{}
	}

	vec := make([]float64, len(f.keys))
	for i, key := range f.keys {
		if _, ok := present[key]; ok {
			vec[i] = 1
		}
	}
	return vec
}
