package catalog

import (
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

// Depth bounds. Depth 0 serialises relations as ids; anything higher
// populates them.
const (
	MinDepth = 0
	MaxDepth = 3
)

type MediaDTO struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt,omitempty"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMediaDTO(m *models.Media) *MediaDTO {
	if m == nil {
		return nil
	}
	return &MediaDTO{
		ID:        m.ID,
		URL:       m.URL,
		Alt:       m.Alt,
		Filename:  m.FileName,
		MimeType:  m.MimeType,
		Width:     m.Width,
		Height:    m.Height,
		CreatedAt: m.CreatedAt,
	}
}

type CategoryDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCategoryDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ProductImageDTO holds a media id at depth 0 and a MediaDTO otherwise.
type ProductImageDTO struct {
	ID    uint `json:"id"`
	Image any  `json:"image"`
}

// ProductDTO is the public product shape. Category holds the category id at
// depth 0 and a CategoryDTO otherwise.
type ProductDTO struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	Category       any                `json:"category"`
	ProductImages  []ProductImageDTO  `json:"productImages"`
	LegacyImageURL *string            `json:"legacyImageUrl,omitempty"`
	Dimensions     dbtypes.Dimensions `json:"dimensions"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// NewProductDTO serialises a product at the requested depth.
func NewProductDTO(p *models.Product, depth int) ProductDTO {
	dto := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.CategoryID,
		ProductImages:  make([]ProductImageDTO, 0, len(p.Images)),
		LegacyImageURL: p.LegacyImageURL,
		Dimensions:     normalizeDimensions(p.Dimensions),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	populate := depth > MinDepth
	if populate && p.Category != nil {
		dto.Category = NewCategoryDTO(p.Category)
	}
	for i := range p.Images {
		img := p.Images[i]
		entry := ProductImageDTO{ID: img.ID, Image: img.MediaID}
		if populate && img.Media != nil {
			entry.Image = NewMediaDTO(img.Media)
		}
		dto.ProductImages = append(dto.ProductImages, entry)
	}
	return dto
}

// PrimaryImageURL is the first gallery image, falling back to the imported
// legacy URL.
func PrimaryImageURL(p *models.Product) *string {
	for _, img := range p.Images {
		if img.Media != nil && img.Media.URL != "" {
			url := img.Media.URL
			return &url
		}
	}
	return p.LegacyImageURL
}

func normalizeDimensions(d dbtypes.Dimensions) dbtypes.Dimensions {
	if d.Thickness == nil {
		d.Thickness = []dbtypes.DimensionOption{}
	}
	if d.Width == nil {
		d.Width = []dbtypes.DimensionOption{}
	}
	if d.Height == nil {
		d.Height = []dbtypes.DimensionOption{}
	}
	return d
}

func ClampDepth(depth int) int {
	if depth < MinDepth {
		return MinDepth
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}
