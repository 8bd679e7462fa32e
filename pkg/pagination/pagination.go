package pagination

import "math"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 12
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds 1-based page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the page to >= 1 and the limit to [1, MaxLimit], applying
// DefaultLimit when no limit was provided.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// Offset returns the number of rows to skip for the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// TotalPages is ceil(total / limit), never negative.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Envelope is the paginated list shape served to storefront clients.
type Envelope[T any] struct {
	Docs          []T   `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int   `json:"limit"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	PagingCounter int   `json:"pagingCounter"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	PrevPage      *int  `json:"prevPage"`
	NextPage      *int  `json:"nextPage"`
}

// NewEnvelope wraps one page of docs with its navigation metadata.
func NewEnvelope[T any](docs []T, total int64, params Params) Envelope[T] {
	p := params.Normalize()
	if docs == nil {
		docs = []T{}
	}

	totalPages := TotalPages(total, p.Limit)
	env := Envelope[T]{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         p.Limit,
		TotalPages:    totalPages,
		Page:          p.Page,
		PagingCounter: p.Offset() + 1,
		HasPrevPage:   p.Page > 1,
		HasNextPage:   p.Page < totalPages,
	}
	if env.HasPrevPage {
		prev := p.Page - 1
		env.PrevPage = &prev
	}
	if env.HasNextPage {
		next := p.Page + 1
		env.NextPage = &next
	}
	return env
}
