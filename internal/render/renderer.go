package render

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"parkchat/internal/catalog"
	"parkchat/internal/domain"
)

const placeholderTimeOfDay = "{time_of_day}"

// Renderer selects a template for a winning intent and resolves
// placeholders and nested structures into a final response document.
// The clock and random source are injectable so template selection and
// time-of-day substitution are deterministic under test.
type Renderer struct {
	catalog *catalog.Catalog
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Renderer)

// WithClock overrides the render-time clock.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithRandSource overrides the template-selection random source.
func WithRandSource(src rand.Source) Option {
	return func(r *Renderer) { r.rng = rand.New(src) }
}

func New(cat *catalog.Catalog, opts ...Option) *Renderer {
	r := &Renderer{
		catalog: cat,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the document for a classified intent. Template
// choice is random among the intent's candidates. The greeting intent
// is special: its templates are pre-rendered, so the chosen one is
// returned as the single part verbatim with no placeholder or nested
// processing.
func (r *Renderer) Render(tag string, confidence float64) (domain.ResponseDocument, error) {
	intent, ok := r.catalog.Get(tag)
	if !ok {
		return domain.ResponseDocument{}, fmt.Errorf("no templates for intent %q", tag)
	}
	tmpl := r.pick(intent.Responses)

	if tag == catalog.TagGreeting {
		return domain.ResponseDocument{
			Parts:      tmpl.AllParts(),
			Confidence: confidence,
			Intent:     tag,
		}, nil
	}

	tod := timeOfDay(r.now())
	src := tmpl.AllParts()
	parts := make([]domain.Part, 0, len(src))
	for _, part := range src {
		parts = append(parts, processPart(part, tod))
	}
	return domain.ResponseDocument{
		Parts:      parts,
		Confidence: confidence,
		Intent:     tag,
	}, nil
}

// TimeGreeting renders the time_based_greeting intent as a single
// placeholder-resolved text part at full confidence. ok is false when
// the catalog has no such intent.
func (r *Renderer) TimeGreeting() (domain.ResponseDocument, bool) {
	intent, ok := r.catalog.Get(catalog.TagTimeGreeting)
	if !ok {
		return domain.ResponseDocument{}, false
	}
	tmpl := r.pick(intent.Responses)

	text := ""
	if parts := tmpl.AllParts(); len(parts) > 0 {
		if c := parts[0].Content; c != nil && !c.IsList {
			text = c.Text
		}
	}
	text = substitute(text, timeOfDay(r.now()))

	return domain.ResponseDocument{
		Parts:      []domain.Part{{Type: domain.PartText, Content: domain.TextContent(text)}},
		Confidence: 1.0,
		Intent:     catalog.TagTimeGreeting,
	}, true
}

func (r *Renderer) pick(templates []domain.ResponseTemplate) domain.ResponseTemplate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return templates[r.rng.Intn(len(templates))]
}

// processPart returns a placeholder-resolved copy of part. Recursion
// is bounded by the static template depth; templates are non-cyclic by
// construction.
func processPart(part domain.Part, tod string) domain.Part {
	out := part

	if part.Content != nil {
		if part.Content.IsList {
			out.Content = domain.ListContent(processNodes(part.Content.Nodes, tod)...)
		} else {
			out.Content = domain.TextContent(substitute(part.Content.Text, tod))
		}
	}

	out.Items = processNodes(part.Items, tod)
	out.Options = processNodes(part.Options, tod)
	out.Activities = processNodes(part.Activities, tod)
	return out
}

// processNodes recurses into nested parts and substitutes placeholders
// in bare string items.
func processNodes(nodes []domain.Node, tod string) []domain.Node {
	if nodes == nil {
		return nil
	}
	out := make([]domain.Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Part != nil {
			out = append(out, domain.PartNode(processPart(*node.Part, tod)))
		} else {
			out = append(out, domain.StringNode(substitute(node.Text, tod)))
		}
	}
	return out
}

func substitute(s, tod string) string {
	return strings.ReplaceAll(s, placeholderTimeOfDay, tod)
}

func timeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
