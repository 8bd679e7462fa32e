package content

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

const (
	MsgPageNotFound = "Page not found"
	msgFetchPage    = "Failed to fetch page"
	msgFetchGlobal  = "Failed to fetch global"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Catalog is the slice of the catalog service content needs to populate
// relations.
type Catalog interface {
	FindMedia(ctx context.Context, ids []uint) (map[uint]catalog.MediaDTO, error)
	ProductsByIDs(ctx context.Context, ids []uint, depth int) ([]catalog.ProductDTO, error)
}

type PageDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Layout    Layout    `json:"layout"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PutPageInput struct {
	Title  string `json:"title" validate:"required"`
	Layout Layout `json:"layout"`
}

type Service interface {
	GetPage(ctx context.Context, slug string, depth int) (*PageDTO, error)
	PutPage(ctx context.Context, slug string, input PutPageInput) (*PageDTO, error)
	ListPageSlugs(ctx context.Context) ([]string, error)
	GetGlobal(ctx context.Context, slug enums.GlobalSlug, depth int) (Global, error)
	PutGlobal(ctx context.Context, slug enums.GlobalSlug, raw json.RawMessage) (Global, error)
}

type service struct {
	repo    *Repository
	catalog Catalog
}

func NewService(repo *Repository, cat Catalog) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content repository is required")
	}
	if cat == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	return &service{repo: repo, catalog: cat}, nil
}

func (s *service) GetPage(ctx context.Context, slug string, depth int) (*PageDTO, error) {
	row, err := s.repo.FindPage(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgPageNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgFetchPage)
	}
	page, err := pageFromRow(row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgFetchPage)
	}
	if catalog.ClampDepth(depth) > catalog.MinDepth {
		if err := s.populateMedia(ctx, page.Layout.mediaRefs()); err != nil {
			return nil, err
		}
	}
	return page, nil
}

func (s *service) PutPage(ctx context.Context, slug string, input PutPageInput) (*PageDTO, error) {
	slug = strings.TrimSpace(slug)
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase words separated by dashes")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	for _, b := range input.Layout {
		applyDefaults(b)
	}
	if err := input.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureMedia(ctx, input.Layout.mediaRefs()); err != nil {
		return nil, err
	}

	// relations are stored as ids only
	for _, ref := range input.Layout.mediaRefs() {
		ref.Doc = nil
	}
	doc, err := dbtypes.Encode(input.Layout)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode layout")
	}
	row := &models.Page{Title: title, Slug: slug, Layout: doc}
	if err := s.repo.UpsertPage(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save page")
	}
	return s.GetPage(ctx, slug, 1)
}

func (s *service) ListPageSlugs(ctx context.Context) ([]string, error) {
	slugs, err := s.repo.ListPageSlugs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list pages")
	}
	return slugs, nil
}

// GetGlobal returns the stored document, or the defaults when it has never
// been saved.
func (s *service) GetGlobal(ctx context.Context, slug enums.GlobalSlug, depth int) (Global, error) {
	g := newGlobal(slug)
	row, err := s.repo.FindGlobal(ctx, string(slug))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgFetchGlobal)
	default:
		if err := row.Data.Decode(g); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgFetchGlobal)
		}
	}
	g.normalize()

	depth = catalog.ClampDepth(depth)
	if depth == catalog.MinDepth {
		return g, nil
	}
	if err := s.populateMedia(ctx, g.mediaRefs()); err != nil {
		return nil, err
	}
	if landing, ok := g.(*LandingPage); ok {
		if err := s.populateProducts(ctx, landing, depth-1); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *service) PutGlobal(ctx context.Context, slug enums.GlobalSlug, raw json.RawMessage) (Global, error) {
	g := newGlobal(slug)
	if err := json.Unmarshal(raw, g); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+string(slug)+" document")
	}
	g.normalize()
	if err := g.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureMedia(ctx, g.mediaRefs()); err != nil {
		return nil, err
	}
	for _, ref := range g.mediaRefs() {
		ref.Doc = nil
	}
	if landing, ok := g.(*LandingPage); ok {
		for i := range landing.FeaturedProducts {
			landing.FeaturedProducts[i].Doc = nil
		}
	}

	doc, err := dbtypes.Encode(g)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode global")
	}
	if err := s.repo.UpsertGlobal(ctx, &models.Global{Slug: string(slug), Data: doc}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save global")
	}
	return s.GetGlobal(ctx, slug, 1)
}

func (s *service) populateMedia(ctx context.Context, refs []*MediaRef) error {
	ids := refIDs(refs)
	if len(ids) == 0 {
		return nil
	}
	media, err := s.catalog.FindMedia(ctx, ids)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if m, ok := media[ref.ID]; ok {
			ref.Doc = &m
		}
	}
	return nil
}

func (s *service) populateProducts(ctx context.Context, landing *LandingPage, depth int) error {
	ids := make([]uint, 0, len(landing.FeaturedProducts))
	for _, p := range landing.FeaturedProducts {
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	products, err := s.catalog.ProductsByIDs(ctx, ids, depth)
	if err != nil {
		return err
	}
	byID := make(map[uint]catalog.ProductDTO, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	// deleted products drop out of the featured list
	kept := landing.FeaturedProducts[:0]
	for _, ref := range landing.FeaturedProducts {
		if p, ok := byID[ref.ID]; ok {
			ref.Doc = &p
			kept = append(kept, ref)
		}
	}
	landing.FeaturedProducts = kept
	return nil
}

func (s *service) ensureMedia(ctx context.Context, refs []*MediaRef) error {
	ids := refIDs(refs)
	if len(ids) == 0 {
		return nil
	}
	media, err := s.catalog.FindMedia(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := media[id]; !ok {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "media %d does not exist", id)
		}
	}
	return nil
}

func refIDs(refs []*MediaRef) []uint {
	seen := map[uint]bool{}
	var ids []uint
	for _, r := range refs {
		if r == nil || r.ID == 0 || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}
	return ids
}

func pageFromRow(row *models.Page) (*PageDTO, error) {
	var layout Layout
	if len(row.Layout) > 0 {
		if err := row.Layout.Decode(&layout); err != nil {
			return nil, err
		}
	}
	if layout == nil {
		layout = Layout{}
	}
	return &PageDTO{
		ID:        row.ID,
		Title:     row.Title,
		Slug:      row.Slug,
		Layout:    layout,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
