package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Part types understood by the renderer and the frontend.
const (
	PartText    = "text"
	PartHeader  = "header"
	PartList    = "list"
	PartTable   = "table"
	PartSection = "section"
	PartNote    = "note"
)

// KnownPartType reports whether t is a renderable part type.
func KnownPartType(t string) bool {
	switch t {
	case PartText, PartHeader, PartList, PartTable, PartSection, PartNote:
		return true
	}
	return false
}

// Part is one renderable unit of a response. The tree is static
// template data: a part is never its own descendant.
type Part struct {
	Type       string     `json:"type"`
	Content    *Content   `json:"content,omitempty"`
	Title      string     `json:"title,omitempty"`
	Columns    []string   `json:"columns,omitempty"`
	Rows       [][]string `json:"rows,omitempty"`
	Items      []Node     `json:"items,omitempty"`
	Options    []Node     `json:"options,omitempty"`
	Activities []Node     `json:"activities,omitempty"`
}

// Content is a part body: either a single string or a mixed list of
// strings and nested parts.
type Content struct {
	Text   string
	Nodes  []Node
	IsList bool
}

func TextContent(s string) *Content {
	return &Content{Text: s}
}

func ListContent(nodes ...Node) *Content {
	return &Content{Nodes: nodes, IsList: true}
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsList {
		if c.Nodes == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Nodes)
	}
	return json.Marshal(c.Text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty content")
	}
	if trimmed[0] == '[' {
		c.IsList = true
		return json.Unmarshal(data, &c.Nodes)
	}
	return json.Unmarshal(data, &c.Text)
}

// Node is one element of a mixed content list: a plain string or a
// nested part.
type Node struct {
	Text string
	Part *Part
}

func StringNode(s string) Node {
	return Node{Text: s}
}

func PartNode(p Part) Node {
	return Node{Part: &p}
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.Part != nil {
		return json.Marshal(n.Part)
	}
	return json.Marshal(n.Text)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var p Part
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		n.Part = &p
		return nil
	}
	return json.Unmarshal(data, &n.Text)
}

// ResponseTemplate is one candidate response of an intent. Catalog
// files store either {"parts":[...]} or a bare part object (the
// greeting intents keep single-part responses inline).
type ResponseTemplate struct {
	Parts  []Part
	Inline *Part
}

// AllParts returns the template's part sequence regardless of form.
func (t ResponseTemplate) AllParts() []Part {
	if t.Inline != nil {
		return []Part{*t.Inline}
	}
	return t.Parts
}

func (t ResponseTemplate) MarshalJSON() ([]byte, error) {
	if t.Inline != nil {
		return json.Marshal(t.Inline)
	}
	return json.Marshal(struct {
		Parts []Part `json:"parts"`
	}{Parts: t.Parts})
}

func (t *ResponseTemplate) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if raw, ok := probe["parts"]; ok {
		return json.Unmarshal(raw, &t.Parts)
	}
	var p Part
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	t.Inline = &p
	return nil
}

// Intent is a named category of visitor request with match patterns
// and candidate response templates. Immutable after catalog load.
type Intent struct {
	Tag       string             `json:"tag"`
	Patterns  []string           `json:"patterns"`
	Responses []ResponseTemplate `json:"responses"`
}

// Resolution sources, ordered by pipeline precedence.
const (
	SourceQuickAction  = "quick_action"
	SourceTimeGreeting = "time_greeting"
	SourceClassifier   = "classifier"
	SourcePattern      = "pattern"
	SourceFallback     = "fallback"
	SourceError        = "error"
)

// ResolvedIntent is the outcome of one resolution pass. Created fresh
// per request, never persisted.
type ResolvedIntent struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// ResponseDocument is the final placeholder-resolved output. Treated
// as immutable once returned (cache entries are shared).
type ResponseDocument struct {
	Parts      []Part  `json:"parts"`
	Confidence float64 `json:"confidence"`
	Intent     string  `json:"intent"`
}

// FirstText returns the string content of the first part, or "".
func (d ResponseDocument) FirstText() string {
	if len(d.Parts) == 0 {
		return ""
	}
	c := d.Parts[0].Content
	if c == nil || c.IsList {
		return ""
	}
	return c.Text
}

// HTTP payloads.

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Parts        []Part  `json:"parts"`
	Confidence   float64 `json:"confidence"`
	Intent       string  `json:"intent"`
	ResponseText string  `json:"response_text"`
}

// ResolutionEvent is published after each answered chat for
// operational dashboards.
type ResolutionEvent struct {
	RequestID  string  `json:"request_id"`
	Intent     string  `json:"intent"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	Cached     bool    `json:"cached"`
	LatencyMS  int64   `json:"latency_ms"`
	TS         string  `json:"ts"`
}
