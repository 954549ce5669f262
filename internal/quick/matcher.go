package quick

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"parkchat/internal/domain"
)

// Rule binds a phrase set to a prebuilt multi-part response. A rule
// matches when any phrase is a literal substring of the normalized
// input.
type Rule struct {
	Intent  string        `yaml:"intent"`
	Phrases []string      `yaml:"phrases"`
	Parts   []domain.Part `yaml:"-"`
}

// Matcher short-circuits classification for known high-value queries.
// Pure function over static rule data; safe for concurrent use.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules []Rule) *Matcher {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Matcher{rules: rules}
}

// Match returns the first rule's document whose phrase set hits the
// normalized input, or nil. Evaluation order is declaration order.
func (m *Matcher) Match(normalized string) *domain.ResponseDocument {
	for _, rule := range m.rules {
		for _, phrase := range rule.Phrases {
			if strings.Contains(normalized, phrase) {
				return &domain.ResponseDocument{
					Parts:      rule.Parts,
					Confidence: QuickActionConfidence,
					Intent:     rule.Intent,
				}
			}
		}
	}
	return nil
}

// Rules returns the rule list in evaluation order.
func (m *Matcher) Rules() []Rule {
	return m.rules
}

// yamlRule is the on-disk rule form: response parts are embedded as a
// JSON-compatible structure under "parts".
type yamlRule struct {
	Intent  string    `yaml:"intent"`
	Phrases []string  `yaml:"phrases"`
	Parts   []yamlAny `yaml:"parts"`
}

type yamlAny struct {
	raw map[string]any
}

func (y *yamlAny) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&y.raw)
}

// LoadRules reads hand-authored quick-action rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quick-action rules: %w", err)
	}

	var file struct {
		Rules []yamlRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse quick-action rules: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("quick-action rules file has no rules")
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, yr := range file.Rules {
		if strings.TrimSpace(yr.Intent) == "" {
			return nil, fmt.Errorf("quick-action rule %d has no intent", i)
		}
		if len(yr.Phrases) == 0 {
			return nil, fmt.Errorf("quick-action rule %q has no phrases", yr.Intent)
		}
		parts, err := decodeParts(yr.Parts)
		if err != nil {
			return nil, fmt.Errorf("quick-action rule %q: %w", yr.Intent, err)
		}
		phrases := make([]string, len(yr.Phrases))
		for j, p := range yr.Phrases {
			phrases[j] = strings.ToLower(strings.TrimSpace(p))
		}
		rules = append(rules, Rule{Intent: yr.Intent, Phrases: phrases, Parts: parts})
	}
	return rules, nil
}

func decodeParts(items []yamlAny) ([]domain.Part, error) {
	parts := make([]domain.Part, 0, len(items))
	for _, item := range items {
		part, err := decodePart(item.raw)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no parts")
	}
	return parts, nil
}

func decodePart(raw map[string]any) (domain.Part, error) {
	var part domain.Part

	typ, _ := raw["type"].(string)
	if typ == "" {
		return part, fmt.Errorf("part without a type")
	}
	if !domain.KnownPartType(typ) {
		return part, fmt.Errorf("unknown part type %q", typ)
	}
	part.Type = typ
	part.Title, _ = raw["title"].(string)

	if v, ok := raw["content"]; ok {
		content, err := decodeContent(v)
		if err != nil {
			return part, err
		}
		part.Content = content
	}
	if v, ok := raw["columns"].([]any); ok {
		for _, col := range v {
			s, _ := col.(string)
			part.Columns = append(part.Columns, s)
		}
	}
	if v, ok := raw["rows"].([]any); ok {
		for _, rowAny := range v {
			cells, _ := rowAny.([]any)
			row := make([]string, 0, len(cells))
			for _, cell := range cells {
				s, _ := cell.(string)
				row = append(row, s)
			}
			part.Rows = append(part.Rows, row)
		}
	}
	for key, dst := range map[string]*[]domain.Node{
		"items":      &part.Items,
		"options":    &part.Options,
		"activities": &part.Activities,
	} {
		v, ok := raw[key].([]any)
		if !ok {
			continue
		}
		nodes, err := decodeNodes(v)
		if err != nil {
			return part, err
		}
		*dst = nodes
	}
	return part, nil
}

func decodeContent(v any) (*domain.Content, error) {
	switch val := v.(type) {
	case string:
		return domain.TextContent(val), nil
	case []any:
		nodes, err := decodeNodes(val)
		if err != nil {
			return nil, err
		}
		return domain.ListContent(nodes...), nil
	default:
		return nil, fmt.Errorf("content must be a string or a list")
	}
}

func decodeNodes(items []any) ([]domain.Node, error) {
	nodes := make([]domain.Node, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			nodes = append(nodes, domain.StringNode(val))
		case map[string]any:
			part, err := decodePart(val)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, domain.PartNode(part))
		default:
			return nil, fmt.Errorf("list items must be strings or parts")
		}
	}
	return nodes, nil
}
