package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"parkchat/internal/catalog"
	"parkchat/internal/classify"
	"parkchat/internal/domain"
	"parkchat/internal/nlp"
	"parkchat/internal/quick"
	"parkchat/internal/render"
	"parkchat/internal/translate"
)

const (
	// DefaultThreshold is the minimum classifier probability for a
	// label to stay in the candidate set. Strictly greater-than.
	DefaultThreshold = 0.7

	// PatternConfidence is reported when an intent wins by keyword
	// matching in pattern mode.
	PatternConfidence = 0.85
)

// Service orchestrates the matcher chain: quick actions, time-based
// greeting, classifier, fallback. Each request is resolved
// independently; the only I/O suspension points are the translation
// and classifier calls, each invoked at most once per request.
type Service struct {
	catalog    *catalog.Catalog
	quick      *quick.Matcher
	featurizer *nlp.Featurizer
	adapter    classify.Adapter
	labels     []string
	translator translate.Translator
	renderer   *render.Renderer
	threshold  float64
	logger     *slog.Logger
}

type Config struct {
	// Threshold overrides DefaultThreshold when > 0.
	Threshold float64
	// Labels is the classifier's label ordering, agreed at startup.
	// Empty together with a nil adapter selects pattern mode.
	Labels []string
}

func New(cfg Config, cat *catalog.Catalog, quickMatcher *quick.Matcher, featurizer *nlp.Featurizer, adapter classify.Adapter, translator translate.Translator, renderer *render.Renderer, logger *slog.Logger) *Service {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if translator == nil {
		translator = translate.Noop{}
	}
	return &Service{
		catalog:    cat,
		quick:      quickMatcher,
		featurizer: featurizer,
		adapter:    adapter,
		labels:     cfg.Labels,
		translator: translator,
		renderer:   renderer,
		threshold:  threshold,
		logger:     logger,
	}
}

// Respond runs the full pipeline for one raw message and returns the
// rendered document plus the resolution that produced it.
func (s *Service) Respond(ctx context.Context, raw string) (domain.ResponseDocument, domain.ResolvedIntent) {
	start := time.Now()
	doc, resolved := s.respond(ctx, raw)
	s.logger.Info("resolution complete",
		"intent", resolved.Tag,
		"source", resolved.Source,
		"confidence", resolved.Confidence,
		"total_ms", time.Since(start).Milliseconds(),
	)
	return doc, resolved
}

func (s *Service) respond(ctx context.Context, raw string) (doc domain.ResponseDocument, resolved domain.ResolvedIntent) {
	// Unexpected failures anywhere past the static matchers become a
	// terminal error document; the caller renders an apology and must
	// not retry automatically.
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("resolution failed", "panic", rec)
			doc = errorDocument()
			resolved = resolvedFrom(doc, domain.SourceError)
		}
	}()

	normalized := strings.ToLower(strings.TrimSpace(raw))

	if qdoc := s.quick.Match(normalized); qdoc != nil {
		return *qdoc, resolvedFrom(*qdoc, domain.SourceQuickAction)
	}

	if gdoc, ok := s.matchTimeGreeting(normalized); ok {
		return gdoc, resolvedFrom(gdoc, domain.SourceTimeGreeting)
	}

	if s.adapter == nil {
		return s.respondByPatterns(normalized)
	}

	text := strings.TrimSpace(raw)
	if !isASCII(text) {
		text = s.translator.Translate(ctx, text, "en")
	}
	return s.respondByClassifier(ctx, text)
}

// matchTimeGreeting short-circuits when any declared pattern of the
// time_based_greeting intent is a substring of the input.
func (s *Service) matchTimeGreeting(normalized string) (domain.ResponseDocument, bool) {
	intent, ok := s.catalog.Get(catalog.TagTimeGreeting)
	if !ok {
		return domain.ResponseDocument{}, false
	}
	for _, pattern := range intent.Patterns {
		if strings.Contains(normalized, strings.ToLower(pattern)) {
			return s.renderer.TimeGreeting()
		}
	}
	return domain.ResponseDocument{}, false
}

func (s *Service) respondByClassifier(ctx context.Context, text string) (domain.ResponseDocument, domain.ResolvedIntent) {
	features := s.featurizer.BagOfWords(text)
	probs, err := s.adapter.Score(ctx, features)
	if err != nil {
		s.logger.Error("classifier scoring failed", "error", err)
		doc := errorDocument()
		return doc, resolvedFrom(doc, domain.SourceError)
	}
	if len(probs) != len(s.labels) {
		s.logger.Error("classifier output misaligned", "got", len(probs), "want", len(s.labels))
		doc := errorDocument()
		return doc, resolvedFrom(doc, domain.SourceError)
	}

	type candidate struct {
		idx   int
		score float64
	}
	candidates := make([]candidate, 0, len(probs))
	for i, p := range probs {
		if p > s.threshold {
			candidates = append(candidates, candidate{idx: i, score: p})
		}
	}
	// Stable sort: equal top scores keep the adapter's label order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) == 0 {
		doc := fallbackDocument()
		return doc, resolvedFrom(doc, domain.SourceFallback)
	}

	tag := s.labels[candidates[0].idx]
	confidence := candidates[0].score
	doc, err := s.renderer.Render(tag, confidence)
	if err != nil {
		// A trained label with no catalog entry is a no-match, not an
		// error: the source falls through to the rephrase response.
		s.logger.Warn("no templates for classified intent", "intent", tag, "error", err)
		fdoc := fallbackDocument()
		return fdoc, resolvedFrom(fdoc, domain.SourceFallback)
	}
	return doc, domain.ResolvedIntent{Tag: tag, Confidence: confidence, Source: domain.SourceClassifier}
}

// respondByPatterns is the keyword fallback used when no classifier is
// configured: +1 per full pattern substring, +0.5 per pattern word
// found in the input, best positive score wins.
func (s *Service) respondByPatterns(normalized string) (domain.ResponseDocument, domain.ResolvedIntent) {
	bestTag := ""
	bestScore := 0.0
	for _, intent := range s.catalog.Intents() {
		score := 0.0
		for _, pattern := range intent.Patterns {
			lowered := strings.ToLower(pattern)
			if strings.Contains(normalized, lowered) {
				score++
				continue
			}
			for _, word := range strings.Fields(lowered) {
				if strings.Contains(normalized, word) {
					score += 0.5
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestTag = intent.Tag
		}
	}

	if bestScore <= 0 {
		doc := patternFallbackDocument()
		return doc, resolvedFrom(doc, domain.SourceFallback)
	}

	doc, err := s.renderer.Render(bestTag, PatternConfidence)
	if err != nil {
		s.logger.Warn("no templates for pattern-matched intent", "intent", bestTag, "error", err)
		fdoc := patternFallbackDocument()
		return fdoc, resolvedFrom(fdoc, domain.SourceFallback)
	}
	return doc, domain.ResolvedIntent{Tag: bestTag, Confidence: PatternConfidence, Source: domain.SourcePattern}
}

func resolvedFrom(doc domain.ResponseDocument, source string) domain.ResolvedIntent {
	return domain.ResolvedIntent{Tag: doc.Intent, Confidence: doc.Confidence, Source: source}
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func fallbackDocument() domain.ResponseDocument {
	return domain.ResponseDocument{
		Parts: []domain.Part{{
			Type:    domain.PartText,
			Content: domain.TextContent("Could you please rephrase that?"),
		}},
		Confidence: 0.0,
		Intent:     "unknown",
	}
}

func patternFallbackDocument() domain.ResponseDocument {
	return domain.ResponseDocument{
		Parts: []domain.Part{{
			Type:    domain.PartText,
			Content: domain.TextContent("I'd be happy to help you learn about Bale Mountains National Park! You can ask me about park information, how to get there, accommodations, activities, best times to visit, or park fees."),
		}},
		Confidence: 0.5,
		Intent:     "fallback",
	}
}

func errorDocument() domain.ResponseDocument {
	return domain.ResponseDocument{
		Parts: []domain.Part{{
			Type:    domain.PartText,
			Content: domain.TextContent("I'm having trouble understanding that."),
		}},
		Confidence: 0.0,
		Intent:     "error",
	}
}
