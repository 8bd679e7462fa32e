package content

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

type fixture struct {
	svc     Service
	catalog catalog.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.OpenSQLite(t)
	cat, err := catalog.NewService(catalog.NewRepository(client.DB()), client)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(client.DB()), cat)
	require.NoError(t, err)
	return fixture{svc: svc, catalog: cat}
}

func (f fixture) media(t *testing.T) *catalog.MediaDTO {
	t.Helper()
	m, err := f.catalog.CreateMedia(context.Background(), catalog.CreateMediaInput{
		URL: "https://cdn.example.com/door.jpg", Filename: "door.jpg", MimeType: "image/jpeg",
	})
	require.NoError(t, err)
	return m
}

func decodeLayout(t *testing.T, raw string) Layout {
	t.Helper()
	var layout Layout
	require.NoError(t, json.Unmarshal([]byte(raw), &layout))
	return layout
}

func TestPutAndGetPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.media(t)

	layout := decodeLayout(t, `[{"blockType":"hero","title":"About","image":`+jsonID(m.ID)+`},{"blockType":"contact"}]`)
	saved, err := f.svc.PutPage(ctx, "about-us", PutPageInput{Title: "About Us", Layout: layout})
	require.NoError(t, err)
	assert.Equal(t, "about-us", saved.Slug)

	shallow, err := f.svc.GetPage(ctx, "about-us", 0)
	require.NoError(t, err)
	hero := shallow.Layout[0].(*HeroBlock)
	assert.Nil(t, hero.Image.Doc)

	deep, err := f.svc.GetPage(ctx, "about-us", 2)
	require.NoError(t, err)
	hero = deep.Layout[0].(*HeroBlock)
	require.NotNil(t, hero.Image.Doc)
	assert.Equal(t, m.URL, hero.Image.Doc.URL)

	// upsert replaces the layout
	_, err = f.svc.PutPage(ctx, "about-us", PutPageInput{Title: "About", Layout: Layout{}})
	require.NoError(t, err)
	again, err := f.svc.GetPage(ctx, "about-us", 1)
	require.NoError(t, err)
	assert.Equal(t, "About", again.Title)
	assert.Empty(t, again.Layout)
}

func TestPutPageRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.PutPage(ctx, "About Us", PutPageInput{Title: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	layout := decodeLayout(t, `[{"blockType":"hero","title":"About","image":999}]`)
	_, err = f.svc.PutPage(ctx, "about", PutPageInput{Title: "About", Layout: layout})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "missing media is rejected")

	_, err = f.svc.GetPage(ctx, "missing", 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestGlobalsDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g, err := f.svc.GetGlobal(ctx, enums.GlobalHeader, 1)
	require.NoError(t, err)
	assert.Equal(t, "The Carpenter", g.(*Header).LogoText)

	_, err = f.svc.PutGlobal(ctx, enums.GlobalHeader, json.RawMessage(`{"logoText":"Carpenter & Co","navLinks":[{"text":"Products","link":"/products"}]}`))
	require.NoError(t, err)
	g, err = f.svc.GetGlobal(ctx, enums.GlobalHeader, 0)
	require.NoError(t, err)
	h := g.(*Header)
	assert.Equal(t, "Carpenter & Co", h.LogoText)
	require.Len(t, h.NavLinks, 1)

	_, err = f.svc.PutGlobal(ctx, enums.GlobalFooter, json.RawMessage(`{"socialLinks":[{"href":"https://x.test","icon":"myspace"}]}`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLandingPageFeaturedProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.media(t)
	cat, err := f.catalog.CreateCategory(ctx, catalog.CreateCategoryInput{Name: "Interior"})
	require.NoError(t, err)
	p, err := f.catalog.CreateProduct(ctx, catalog.CreateProductInput{Name: "Shaker", CategoryID: cat.ID})
	require.NoError(t, err)

	raw := `{"hero":{"title":"Doors","subtitle":"Made to measure","backgroundImage":` + jsonID(m.ID) +
		`,"cta":{"text":"Shop","link":"/products"}},"featuredProducts":[` + jsonID(p.ID) + `,4242]}`
	_, err = f.svc.PutGlobal(ctx, enums.GlobalLandingPage, json.RawMessage(raw))
	require.NoError(t, err)

	shallow, err := f.svc.GetGlobal(ctx, enums.GlobalLandingPage, 0)
	require.NoError(t, err)
	assert.Len(t, shallow.(*LandingPage).FeaturedProducts, 2)
	assert.Nil(t, shallow.(*LandingPage).FeaturedProducts[0].Doc)

	deep, err := f.svc.GetGlobal(ctx, enums.GlobalLandingPage, 1)
	require.NoError(t, err)
	landing := deep.(*LandingPage)
	require.Len(t, landing.FeaturedProducts, 1, "missing products are dropped when populating")
	assert.Equal(t, "Shaker", landing.FeaturedProducts[0].Doc.Name)
	require.NotNil(t, landing.Hero.BackgroundImage.Doc)

	_, err = f.svc.PutGlobal(ctx, enums.GlobalLandingPage, json.RawMessage(`{"hero":{"title":"x"}}`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
