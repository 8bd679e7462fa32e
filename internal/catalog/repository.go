package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string
	CategoryID *uint
	Page       pagination.Params
	Populate   bool
}

// Repository wraps catalog persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns one page of products ordered by id together with the
// total number of matches.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Session(&gorm.Session{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var products []models.Product
	err := preload(query, filter.Populate).
		Order("id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindProduct loads a product with its images. Relations are always loaded
// so depth only affects serialisation.
func (r *Repository) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := preload(r.db.WithContext(ctx), true).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductsByIDs loads products in the order of ids, skipping missing ones.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := preload(r.db.WithContext(ctx), true).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Images").Create(product).Error
}

func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Images", "CreatedAt").Save(product).Error
}

// ReplaceImages swaps the product gallery for the given media ids, in order.
func (r *Repository) ReplaceImages(ctx context.Context, productID uint, mediaIDs []uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(mediaIDs) == 0 {
		return nil
	}
	rows := make([]models.ProductImage, 0, len(mediaIDs))
	for i, id := range mediaIDs {
		rows = append(rows, models.ProductImage{ProductID: productID, MediaID: id, Position: i})
	}
	return tx.Create(&rows).Error
}

// CountMedia reports how many of ids exist.
func (r *Repository) CountMedia(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Media{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *Repository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCategories returns categories ordered by sort order, then name.
func (r *Repository) ListCategories(ctx context.Context, params pagination.Params) ([]models.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p := params.Normalize()
	var out []models.Category
	err := query.Order("sort_order ASC").Order("name ASC").Limit(p.Limit).Offset(p.Offset()).Find(&out).Error
	return out, total, err
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) CreateMedia(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *Repository) FindMedia(ctx context.Context, ids []uint) (map[uint]models.Media, error) {
	out := make(map[uint]models.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Media
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = m
	}
	return out, nil
}

func preload(q *gorm.DB, populate bool) *gorm.DB {
	q = q.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
	if populate {
		q = q.Preload("Category").Preload("Images.Media")
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
