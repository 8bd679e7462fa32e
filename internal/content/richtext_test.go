package content

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/pkg/render"
)

const lexicalDoc = `{"root":{"type":"root","format":"","children":[
  {"type":"heading","tag":"h3","children":[{"type":"text","text":"Care","format":0}]},
  {"type":"paragraph","format":"","children":[
    {"type":"text","text":"Oil ","format":0},
    {"type":"text","text":"twice","format":3},
    {"type":"linebreak"},
    {"type":"link","fields":{"url":"https://example.com/care","newTab":true},"children":[{"type":"text","text":"guide","format":0}]},
    {"type":"link","fields":{"url":"javascript:alert(1)"},"children":[{"type":"text","text":"bad","format":0}]}
  ]},
  {"type":"list","listType":"number","tag":"ol","children":[
    {"type":"listitem","children":[{"type":"text","text":"<sand>","format":16}]}
  ]},
  {"type":"quote","children":[{"type":"text","text":"Built to last","format":8}]}
]}}`

func TestRichTextHTML(t *testing.T) {
	doc, err := ParseRichText(json.RawMessage(lexicalDoc))
	require.NoError(t, err)

	html, err := render.ToString(context.Background(), RichTextHTML(doc))
	require.NoError(t, err)

	assert.Contains(t, html, "<h3>Care</h3>")
	assert.Contains(t, html, "<p>Oil <strong><em>twice</em></strong><br>")
	assert.Contains(t, html, `<a href="https://example.com/care" target="_blank" rel="noopener noreferrer">guide</a>`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "<ol><li><code>&lt;sand&gt;</code></li></ol>")
	assert.Contains(t, html, "<blockquote><u>Built to last</u></blockquote>")
}

func TestPlainText(t *testing.T) {
	doc, err := ParseRichText(json.RawMessage(lexicalDoc))
	require.NoError(t, err)
	text := PlainText(doc)
	assert.Contains(t, text, "Care\nOil twice\nguide")
}

func TestParseRichTextRequiresRoot(t *testing.T) {
	_, err := ParseRichText(json.RawMessage(`{"root":{"type":"paragraph"}}`))
	assert.ErrorIs(t, err, errNoRoot)
}
