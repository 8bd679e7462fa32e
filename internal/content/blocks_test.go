package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

const sampleLayout = `[
  {"blockType":"hero","title":"Our Story","image":4},
  {"blockType":"twoColumn","title":"Craft","image":{"id":5,"url":"/x.jpg"}},
  {"blockType":"features","features":[{"icon":"Hammer","title":"Artisans"}]},
  {"blockType":"richText","content":{"root":{"type":"root","children":[]}}},
  {"blockType":"faq","faqs":[{"question":"Ship?","answer":"Yes"}]},
  {"blockType":"contact"}
]`

func TestLayoutDecodesEveryBlockType(t *testing.T) {
	var layout Layout
	require.NoError(t, json.Unmarshal([]byte(sampleLayout), &layout))
	require.Len(t, layout, 6)

	hero, ok := layout[0].(*HeroBlock)
	require.True(t, ok)
	assert.EqualValues(t, 4, hero.Image.ID)

	two := layout[1].(*TwoColumnBlock)
	assert.EqualValues(t, 5, two.Image.ID, "populated relations decode to their id")
	assert.Equal(t, enums.ImagePositionRight, two.ImagePosition)
	assert.Equal(t, enums.BackgroundLightGray, two.BackgroundColor)

	assert.Equal(t, DefaultFAQTitle, layout[4].(*FAQBlock).Title)
	assert.Equal(t, DefaultContactTitle, layout[5].(*ContactBlock).Title)
	assert.NoError(t, layout.Validate())
}

func TestLayoutRejectsUnknownBlockType(t *testing.T) {
	var layout Layout
	err := json.Unmarshal([]byte(`[{"blockType":"carousel"}]`), &layout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carousel")
}

func TestLayoutMarshalsBlockTypeAndRelations(t *testing.T) {
	alt := "door"
	layout := Layout{
		&HeroBlock{Title: "Hi", Image: MediaRef{ID: 3}},
		&HeroBlock{Title: "Populated", Image: MediaRef{ID: 3, Doc: &catalog.MediaDTO{ID: 3, URL: "/d.jpg", Alt: &alt}}},
	}
	raw, err := json.Marshal(layout)
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "hero", out[0]["blockType"])
	assert.EqualValues(t, 3, out[0]["image"])
	img, ok := out[1]["image"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/d.jpg", img["url"])
}

func TestLayoutValidation(t *testing.T) {
	cases := map[string]string{
		"hero without image":     `[{"blockType":"hero","title":"x"}]`,
		"two column bad color":   `[{"blockType":"twoColumn","title":"x","image":1,"backgroundColor":"pink"}]`,
		"feature bad icon":       `[{"blockType":"features","features":[{"icon":"Saw","title":"x"}]}]`,
		"faq without answer":     `[{"blockType":"faq","faqs":[{"question":"q","answer":""}]}]`,
		"rich text without root": `[{"blockType":"richText","content":{"type":"paragraph"}}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var layout Layout
			require.NoError(t, json.Unmarshal([]byte(raw), &layout))
			err := layout.Validate()
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}
