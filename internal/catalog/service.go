package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
)

// CategoryAll is the listing filter value meaning "every category".
const CategoryAll = "all"

const (
	MsgProductNotFound   = "Product not found"
	MsgFetchProducts     = "Failed to fetch products"
	MsgFetchProduct      = "Failed to fetch product"
	MsgUpdateNotFound    = "Product not found or update failed"
	MsgUpdateProduct     = "Failed to update product"
	msgCategoryNotFound  = "category not found"
	msgMediaNotFound     = "one or more images reference missing media"
	msgCategoryDuplicate = "a category with this name already exists"
)

type ListProductsInput struct {
	Page       pagination.Params
	Depth      int
	CategoryID *uint
	Search     string
}

type ProductImageInput struct {
	Image uint `json:"image" validate:"required"`
}

type CreateProductInput struct {
	Name           string              `json:"name" validate:"required"`
	Description    *string             `json:"description"`
	CategoryID     uint                `json:"category" validate:"required"`
	LegacyImageURL *string             `json:"legacyImageUrl" validate:"omitempty,url"`
	Dimensions     dbtypes.Dimensions  `json:"dimensions"`
	ProductImages  []ProductImageInput `json:"productImages" validate:"dive"`
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	CategoryID     *uint                `json:"category"`
	LegacyImageURL *string              `json:"legacyImageUrl"`
	Dimensions     *dbtypes.Dimensions  `json:"dimensions"`
	ProductImages  *[]ProductImageInput `json:"productImages"`
}

type CreateCategoryInput struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type CreateMediaInput struct {
	URL      string  `json:"url" validate:"required,url"`
	Alt      *string `json:"alt"`
	Filename string  `json:"filename" validate:"required"`
	MimeType string  `json:"mimeType" validate:"required"`
	Width    *int    `json:"width" validate:"omitempty,min=1"`
	Height   *int    `json:"height" validate:"omitempty,min=1"`
}

// Service exposes catalog reads for the storefront and writes for the CMS.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (pagination.Envelope[ProductDTO], error)
	GetProduct(ctx context.Context, id uint, depth int) (*ProductDTO, error)
	ProductsByIDs(ctx context.Context, ids []uint, depth int) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error)
	ListCategories(ctx context.Context, page pagination.Params) (pagination.Envelope[CategoryDTO], error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	CreateMedia(ctx context.Context, input CreateMediaInput) (*MediaDTO, error)
	FindMedia(ctx context.Context, ids []uint) (map[uint]MediaDTO, error)
	QuotableProduct(ctx context.Context, id uint) (quotation.ProductRef, dbtypes.Dimensions, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ParseCategory maps the listing query value to a filter; empty and "all"
// mean no filter.
func ParseCategory(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, CategoryAll) {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category must be a category id or \"all\"")
	}
	return &id, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (pagination.Envelope[ProductDTO], error) {
	depth := ClampDepth(input.Depth)
	page := input.Page.Normalize()
	rows, total, err := s.repo.ListProducts(ctx, ProductFilter{
		Search:     input.Search,
		CategoryID: input.CategoryID,
		Page:       page,
		Populate:   depth > MinDepth,
	})
	if err != nil {
		return pagination.Envelope[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgFetchProducts)
	}
	docs := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, NewProductDTO(&rows[i], depth))
	}
	return pagination.NewEnvelope(docs, total, page), nil
}

func (s *service) GetProduct(ctx context.Context, id uint, depth int) (*ProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgProductNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgFetchProduct)
	}
	dto := NewProductDTO(product, ClampDepth(depth))
	return &dto, nil
}

func (s *service) ProductsByIDs(ctx context.Context, ids []uint, depth int) ([]ProductDTO, error) {
	rows, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgFetchProducts)
	}
	depth = ClampDepth(depth)
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i], depth))
	}
	return out, nil
}

func (s *service) QuotableProduct(ctx context.Context, id uint) (quotation.ProductRef, dbtypes.Dimensions, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quotation.ProductRef{}, dbtypes.Dimensions{}, pkgerrors.New(pkgerrors.CodeNotFound, MsgProductNotFound)
		}
		return quotation.ProductRef{}, dbtypes.Dimensions{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgFetchProduct)
	}
	ref := quotation.ProductRef{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		ImageURL:    PrimaryImageURL(product),
	}
	return ref, product.Dimensions, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateDimensions(input.Dimensions); err != nil {
		return nil, err
	}

	var created uint
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureCategory(ctx, repo, input.CategoryID); err != nil {
			return err
		}
		mediaIDs := imageIDs(input.ProductImages)
		if err := ensureMedia(ctx, repo, mediaIDs); err != nil {
			return err
		}
		product := &models.Product{
			Name:           name,
			Description:    trimOptional(input.Description),
			CategoryID:     input.CategoryID,
			LegacyImageURL: trimOptional(input.LegacyImageURL),
			Dimensions:     input.Dimensions,
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
		}
		created = product.ID
		return repo.ReplaceImages(ctx, product.ID, mediaIDs)
	})
	if err != nil {
		return nil, asTyped(err, "failed to create product")
	}
	return s.GetProduct(ctx, created, MaxDepth)
}

func (s *service) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, MsgUpdateNotFound)
			}
			return err
		}
		if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
			if err := ensureCategory(ctx, repo, *input.CategoryID); err != nil {
				return err
			}
		}
		if err := applyUpdate(product, input); err != nil {
			return err
		}
		if err := repo.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if input.ProductImages != nil {
			mediaIDs := imageIDs(*input.ProductImages)
			if err := ensureMedia(ctx, repo, mediaIDs); err != nil {
				return err
			}
			return repo.ReplaceImages(ctx, id, mediaIDs)
		}
		return nil
	})
	if err != nil {
		return nil, asTyped(err, MsgUpdateProduct)
	}
	dto, err := s.GetProduct(ctx, id, MaxDepth)
	if err != nil {
		return nil, asTyped(err, MsgUpdateProduct)
	}
	return dto, nil
}

func (s *service) ListCategories(ctx context.Context, page pagination.Params) (pagination.Envelope[CategoryDTO], error) {
	page = page.Normalize()
	rows, total, err := s.repo.ListCategories(ctx, page)
	if err != nil {
		return pagination.Envelope[CategoryDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to fetch categories")
	}
	docs := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		docs = append(docs, *NewCategoryDTO(&rows[i]))
	}
	return pagination.NewEnvelope(docs, total, page), nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	category := &models.Category{Name: name, SortOrder: input.SortOrder}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCategoryDuplicate)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) CreateMedia(ctx context.Context, input CreateMediaInput) (*MediaDTO, error) {
	media := &models.Media{
		URL:      strings.TrimSpace(input.URL),
		Alt:      trimOptional(input.Alt),
		FileName: strings.TrimSpace(input.Filename),
		MimeType: strings.TrimSpace(input.MimeType),
		Width:    input.Width,
		Height:   input.Height,
	}
	if media.URL == "" || media.FileName == "" || media.MimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url, filename and mimeType are required")
	}
	if err := s.repo.CreateMedia(ctx, media); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create media")
	}
	return NewMediaDTO(media), nil
}

func (s *service) FindMedia(ctx context.Context, ids []uint) (map[uint]MediaDTO, error) {
	rows, err := s.repo.FindMedia(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load media")
	}
	out := make(map[uint]MediaDTO, len(rows))
	for id, m := range rows {
		out[id] = *NewMediaDTO(&m)
	}
	return out, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = trimOptional(input.Description)
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.LegacyImageURL != nil {
		product.LegacyImageURL = trimOptional(input.LegacyImageURL)
	}
	if input.Dimensions != nil {
		if err := validateDimensions(*input.Dimensions); err != nil {
			return err
		}
		product.Dimensions = *input.Dimensions
	}
	return nil
}

func validateDimensions(d dbtypes.Dimensions) error {
	for _, group := range [][]dbtypes.DimensionOption{d.Thickness, d.Width, d.Height} {
		for _, opt := range group {
			if strings.TrimSpace(opt.Value) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "dimension values cannot be empty")
			}
		}
	}
	return nil
}

func ensureCategory(ctx context.Context, repo *Repository, id uint) error {
	ok, err := repo.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, msgCategoryNotFound)
	}
	return nil
}

func ensureMedia(ctx context.Context, repo *Repository, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	unique := map[uint]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	n, err := repo.CountMedia(ctx, ids)
	if err != nil {
		return err
	}
	if int(n) != len(unique) {
		return pkgerrors.New(pkgerrors.CodeValidation, msgMediaNotFound)
	}
	return nil
}

func imageIDs(in []ProductImageInput) []uint {
	out := make([]uint, 0, len(in))
	for _, img := range in {
		out = append(out, img.Image)
	}
	return out
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// asTyped keeps typed errors and wraps anything else as an internal error.
func asTyped(err error, fallback string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
}
