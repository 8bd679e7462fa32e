package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Text format bits used by the lexical editor.
const (
	FormatBold = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
)

// RichTextNode is one node of a lexical editor document. Only the fields the
// renderer needs are decoded.
type RichTextNode struct {
	Type     string          `json:"type"`
	Children []RichTextNode  `json:"children,omitempty"`
	Text     string          `json:"text,omitempty"`
	Format   json.RawMessage `json:"format,omitempty"`
	Tag      string          `json:"tag,omitempty"`
	ListType string          `json:"listType,omitempty"`
	URL      string          `json:"url,omitempty"`
	Fields   *struct {
		URL    string `json:"url"`
		NewTab bool   `json:"newTab"`
	} `json:"fields,omitempty"`
}

// RichText is the lexical document envelope.
type RichText struct {
	Root RichTextNode `json:"root"`
}

var errNoRoot = errors.New("rich text content must have a root node")

func ParseRichText(raw json.RawMessage) (*RichText, error) {
	var doc RichText
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("rich text content: %w", err)
	}
	if doc.Root.Type != "root" {
		return nil, errNoRoot
	}
	return &doc, nil
}

// textFormat reads the numeric format bitmask of a text node. Element nodes
// use a string alignment in the same field, which yields zero.
func (n RichTextNode) textFormat() int {
	var bits int
	if err := json.Unmarshal(n.Format, &bits); err != nil {
		return 0
	}
	return bits
}

func (n RichTextNode) linkTarget() (string, bool) {
	if n.Fields != nil {
		return n.Fields.URL, n.Fields.NewTab
	}
	return n.URL, false
}

// PlainText flattens a document, e.g. for search snippets.
func PlainText(doc *RichText) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	var walk func(nodes []RichTextNode)
	walk = func(nodes []RichTextNode) {
		for _, n := range nodes {
			switch n.Type {
			case "text":
				b.WriteString(n.Text)
			case "linebreak":
				b.WriteString("\n")
			}
			walk(n.Children)
			if n.Type == "paragraph" || n.Type == "heading" || n.Type == "listitem" {
				b.WriteString("\n")
			}
		}
	}
	walk(doc.Root.Children)
	return strings.TrimSpace(b.String())
}
