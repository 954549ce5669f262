package render

import (
	"math/rand"
	"testing"
	"time"

	"parkchat/internal/catalog"
)

const testCatalogJSON = `{
  "intents": [
    {
      "tag": "greeting",
      "patterns": ["hi"],
      "responses": [
        {"type": "text", "content": "Hello there, have a good {time_of_day}!"}
      ]
    },
    {
      "tag": "time_based_greeting",
      "patterns": ["good morning"],
      "responses": [
        {"type": "text", "content": "Good {time_of_day}! Welcome to the park."}
      ]
    },
    {
      "tag": "when_to_go",
      "patterns": ["when to visit"],
      "responses": [
        {
          "parts": [
            {"type": "header", "content": "Best Time to Visit"},
            {
              "type": "section",
              "title": "Today",
              "content": [
                "Right now it is {time_of_day}.",
                {"type": "list", "content": ["Pack for the {time_of_day}", "Check the roads"]}
              ]
            },
            {"type": "list", "items": ["Morning game drives", "Visit this {time_of_day}"]}
          ]
        }
      ]
    },
    {
      "tag": "goodbye",
      "patterns": ["bye"],
      "responses": [
        {"type": "text", "content": "Goodbye!"},
        {"type": "text", "content": "Safe travels!"},
        {"type": "text", "content": "See you at the park!"}
      ]
    }
  ]
}`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogJSON))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return cat
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 1, 15, hour, 30, 0, 0, time.UTC)
	}
}

func TestTimeGreeting(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{5, "morning"},
		{9, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{17, "afternoon"},
		{18, "evening"},
		{23, "evening"},
		{4, "evening"},
	}
	cat := testCatalog(t)
	for _, tc := range cases {
		r := New(cat, WithClock(fixedClock(tc.hour)))
		doc, ok := r.TimeGreeting()
		if !ok {
			t.Fatal("TimeGreeting reported no intent")
		}
		if doc.Confidence != 1.0 || doc.Intent != catalog.TagTimeGreeting {
			t.Fatalf("doc=%+v, want confidence 1.0 and time_based_greeting", doc)
		}
		want := "Good " + tc.want + "! Welcome to the park."
		if got := doc.FirstText(); got != want {
			t.Fatalf("hour %d: text=%q, want %q", tc.hour, got, want)
		}
	}
}

func TestTimeGreetingMissingIntent(t *testing.T) {
	cat, err := catalog.Parse([]byte(`{"intents":[{"tag":"greeting","responses":[{"type":"text","content":"hi"}]}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := New(cat).TimeGreeting(); ok {
		t.Fatal("expected ok=false without the time_based_greeting intent")
	}
}

func TestRenderGreetingVerbatim(t *testing.T) {
	// Greeting templates are pre-rendered; the placeholder must survive.
	r := New(testCatalog(t), WithClock(fixedClock(9)))
	doc, err := r.Render(catalog.TagGreeting, 0.9)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := doc.FirstText(); got != "Hello there, have a good {time_of_day}!" {
		t.Fatalf("text=%q, want the raw template", got)
	}
	if doc.Confidence != 0.9 {
		t.Fatalf("confidence=%v, want 0.9", doc.Confidence)
	}
}

func TestRenderResolvesNestedPlaceholders(t *testing.T) {
	r := New(testCatalog(t), WithClock(fixedClock(14)))
	doc, err := r.Render("when_to_go", 0.8)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(doc.Parts) != 3 {
		t.Fatalf("parts=%d, want 3", len(doc.Parts))
	}

	section := doc.Parts[1]
	if section.Content.Nodes[0].Text != "Right now it is afternoon." {
		t.Fatalf("section text=%q", section.Content.Nodes[0].Text)
	}
	nested := section.Content.Nodes[1].Part
	if nested == nil || nested.Content.Nodes[0].Text != "Pack for the afternoon" {
		t.Fatalf("nested list=%+v", nested)
	}

	items := doc.Parts[2].Items
	if items[1].Text != "Visit this afternoon" {
		t.Fatalf("item=%q", items[1].Text)
	}
}

func TestRenderDoesNotMutateCatalog(t *testing.T) {
	cat := testCatalog(t)
	r := New(cat, WithClock(fixedClock(14)))
	if _, err := r.Render("when_to_go", 0.8); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	intent, _ := cat.Get("when_to_go")
	section := intent.Responses[0].AllParts()[1]
	if section.Content.Nodes[0].Text != "Right now it is {time_of_day}." {
		t.Fatalf("catalog template was mutated: %q", section.Content.Nodes[0].Text)
	}
}

func TestRenderUnknownIntent(t *testing.T) {
	r := New(testCatalog(t))
	if _, err := r.Render("no_such_intent", 0.8); err == nil {
		t.Fatal("expected error for unknown intent")
	}
}

func TestRenderSelectionIsSeedDeterministic(t *testing.T) {
	cat := testCatalog(t)
	a := New(cat, WithRandSource(rand.NewSource(7)))
	b := New(cat, WithRandSource(rand.NewSource(7)))
	for i := 0; i < 10; i++ {
		docA, err := a.Render("goodbye", 0.8)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		docB, err := b.Render("goodbye", 0.8)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if docA.FirstText() != docB.FirstText() {
			t.Fatalf("iteration %d: %q != %q", i, docA.FirstText(), docB.FirstText())
		}
	}
}
