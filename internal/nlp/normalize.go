package nlp

import (
	"strings"
	"unicode"
)

// Normalizer turns raw text into a list of normalized tokens. The
// production pipeline treats this as an opaque capability so a heavier
// tokenizer/lemmatizer can be swapped in without touching the
// featurizer.
type Normalizer interface {
	Tokens(text string) []string
}

// SimpleNormalizer lowercases, splits on non-alphanumeric runes and
// reduces each token with a small English lemma table.
type SimpleNormalizer struct{}

func NewSimpleNormalizer() *SimpleNormalizer {
	return &SimpleNormalizer{}
}

var irregularLemmas = map[string]string{
	"am":         "be",
	"are":        "be",
	"is":         "be",
	"was":        "be",
	"were":       "be",
	"been":       "be",
	"being":      "be",
	"has":        "have",
	"had":        "have",
	"having":     "have",
	"does":       "do",
	"did":        "do",
	"done":       "do",
	"went":       "go",
	"gone":       "go",
	"goes":       "go",
	"children":   "child",
	"feet":       "foot",
	"mice":       "mouse",
	"wolves":     "wolf",
	"geese":      "goose",
	"better":     "good",
	"best":       "good",
	"activities": "activity",
	"fees":       "fee",
	"buses":      "bus",
	"mountains":  "mountain",
}

func (n *SimpleNormalizer) Tokens(text string) []string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, lemma(f))
	}
	return tokens
}

// lemma applies the irregular table first and otherwise strips common
// English inflection suffixes.
func lemma(token string) string {
	if mapped, ok := irregularLemmas[token]; ok {
		return mapped
	}

	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "xes") || strings.HasSuffix(token, "zes") ||
		strings.HasSuffix(token, "ches") || strings.HasSuffix(token, "shes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ing") && len(token) > 5:
		return collapseDoubled(token[:len(token)-3])
	case strings.HasSuffix(token, "ed") && len(token) > 4:
		return collapseDoubled(token[:len(token)-2])
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") && len(token) > 3:
		return token[:len(token)-1]
	}
	return token
}

func collapseDoubled(stem string) string {
	if len(stem) >= 2 && stem[len(stem)-1] == stem[len(stem)-2] && isConsonant(stem[len(stem)-1]) {
		return stem[:len(stem)-1]
	}
	return stem
}

func isConsonant(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return b >= 'a' && b <= 'z'
}
