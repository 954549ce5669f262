package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"parkchat/internal/domain"
)

// Tags the resolver treats specially.
const (
	TagGreeting     = "greeting"
	TagTimeGreeting = "time_based_greeting"
)

// Catalog is the immutable intent/template store. Loaded once at
// startup; read-only afterwards.
type Catalog struct {
	intents []domain.Intent
	byTag   map[string]*domain.Intent
}

type catalogFile struct {
	Intents []domain.Intent `json:"intents"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads and validates an intent catalog file. The file may carry
// a UTF-8 byte-order mark (the source data was saved that way).
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent catalog: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw JSON bytes.
func Parse(raw []byte) (*Catalog, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse intent catalog: %w", err)
	}
	if len(file.Intents) == 0 {
		return nil, fmt.Errorf("intent catalog has no intents")
	}

	c := &Catalog{
		intents: file.Intents,
		byTag:   make(map[string]*domain.Intent, len(file.Intents)),
	}
	for i := range c.intents {
		intent := &c.intents[i]
		if err := validateIntent(intent); err != nil {
			return nil, err
		}
		if _, dup := c.byTag[intent.Tag]; dup {
			return nil, fmt.Errorf("duplicate intent tag: %s", intent.Tag)
		}
		c.byTag[intent.Tag] = intent
	}
	return c, nil
}

// Get returns the intent for tag, or false when unknown.
func (c *Catalog) Get(tag string) (domain.Intent, bool) {
	intent, ok := c.byTag[tag]
	if !ok {
		return domain.Intent{}, false
	}
	return *intent, true
}

// Intents returns the catalog's intents in declaration order. The
// returned slice shares template data; callers must not mutate it.
func (c *Catalog) Intents() []domain.Intent {
	return c.intents
}

// Len reports the number of intents.
func (c *Catalog) Len() int {
	return len(c.intents)
}

func validateIntent(intent *domain.Intent) error {
	if strings.TrimSpace(intent.Tag) == "" {
		return fmt.Errorf("intent with empty tag")
	}
	if len(intent.Responses) == 0 {
		return fmt.Errorf("intent %q has no responses", intent.Tag)
	}
	for i, tmpl := range intent.Responses {
		parts := tmpl.AllParts()
		if len(parts) == 0 {
			return fmt.Errorf("intent %q response %d has no parts", intent.Tag, i)
		}
		for _, part := range parts {
			if err := validatePart(intent.Tag, part); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePart(tag string, part domain.Part) error {
	if part.Type == "" {
		return fmt.Errorf("intent %q has a response part without a type", tag)
	}
	if !domain.KnownPartType(part.Type) {
		return fmt.Errorf("intent %q has a response part of unknown type %q", tag, part.Type)
	}
	if part.Content != nil && part.Content.IsList {
		for _, node := range part.Content.Nodes {
			if node.Part != nil {
				if err := validatePart(tag, *node.Part); err != nil {
					return err
				}
			}
		}
	}
	for _, nodes := range [][]domain.Node{part.Items, part.Options, part.Activities} {
		for _, node := range nodes {
			if node.Part != nil {
				if err := validatePart(tag, *node.Part); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
