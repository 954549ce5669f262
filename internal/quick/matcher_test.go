package quick

import (
	"strings"
	"testing"

	"parkchat/internal/domain"
)

func TestMatchDefaultRules(t *testing.T) {
	m := NewMatcher(nil)

	doc := m.Match("tell me about bale mountains national park")
	if doc == nil {
		t.Fatal("expected a quick-action hit")
	}
	if doc.Intent != "place_info" {
		t.Fatalf("intent=%s, want place_info", doc.Intent)
	}
	if doc.Confidence != QuickActionConfidence {
		t.Fatalf("confidence=%v, want %v", doc.Confidence, QuickActionConfidence)
	}
	if doc.Parts[0].Type != domain.PartHeader {
		t.Fatalf("first part type=%s, want header", doc.Parts[0].Type)
	}
}

func TestMatchSubstring(t *testing.T) {
	m := NewMatcher(nil)

	// A phrase hit anywhere inside the input counts.
	doc := m.Match("so, how much does it cost for two people?")
	if doc == nil || doc.Intent != "park_fees" {
		t.Fatalf("doc=%+v, want park_fees", doc)
	}

	if m.Match("is the sanetti plateau accessible by car") != nil {
		t.Fatal("expected no hit for a non-quick-action query")
	}
}

func TestMatchDeclarationOrder(t *testing.T) {
	rules := []Rule{
		{Intent: "first", Phrases: []string{"shared phrase"}, Parts: []domain.Part{{Type: domain.PartText, Content: domain.TextContent("a")}}},
		{Intent: "second", Phrases: []string{"shared phrase"}, Parts: []domain.Part{{Type: domain.PartText, Content: domain.TextContent("b")}}},
	}
	m := NewMatcher(rules)
	doc := m.Match("this has the shared phrase inside")
	if doc == nil || doc.Intent != "first" {
		t.Fatalf("doc=%+v, want the earlier rule to win", doc)
	}
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules("testdata/rules.yaml")
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules=%d, want 2", len(rules))
	}

	// Phrases are lowercased at load time.
	if rules[0].Phrases[0] != "opening hours" {
		t.Fatalf("phrase=%q, want lowercased", rules[0].Phrases[0])
	}

	guides := rules[1]
	if guides.Intent != "guides" || len(guides.Parts) != 2 {
		t.Fatalf("guides rule=%+v", guides)
	}
	section := guides.Parts[0]
	if section.Type != domain.PartSection || section.Title != "Guides" {
		t.Fatalf("section=%+v", section)
	}
	if !section.Content.IsList || len(section.Content.Nodes) != 2 {
		t.Fatalf("section content=%+v, want string + nested list", section.Content)
	}
	nested := section.Content.Nodes[1].Part
	if nested == nil || nested.Type != domain.PartList || len(nested.Content.Nodes) != 2 {
		t.Fatalf("nested list=%+v", nested)
	}
	table := guides.Parts[1]
	if len(table.Columns) != 2 || len(table.Rows) != 2 || table.Rows[1][1] != "500 ETB" {
		t.Fatalf("table=%+v", table)
	}

	m := NewMatcher(rules)
	if doc := m.Match("when does the park open today"); doc == nil || doc.Intent != "opening_hours" {
		t.Fatalf("doc=%+v, want opening_hours", doc)
	}
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	if _, err := LoadRules("testdata/no_such_file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultRulesAreWellFormed(t *testing.T) {
	for _, rule := range DefaultRules() {
		if strings.TrimSpace(rule.Intent) == "" {
			t.Fatal("rule without intent")
		}
		if len(rule.Phrases) == 0 || len(rule.Parts) == 0 {
			t.Fatalf("rule %q missing phrases or parts", rule.Intent)
		}
		for _, phrase := range rule.Phrases {
			if phrase != strings.ToLower(phrase) {
				t.Fatalf("rule %q phrase %q is not lowercase", rule.Intent, phrase)
			}
		}
		for _, part := range rule.Parts {
			if !domain.KnownPartType(part.Type) {
				t.Fatalf("rule %q has unknown part type %q", rule.Intent, part.Type)
			}
		}
	}
}
