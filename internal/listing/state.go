package listing

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	PageSize        = 12
	DefaultCategory = "all"
	// MinSearchLength is the shortest non-empty search that is committed.
	MinSearchLength = 3
)

// State is the part of the listing that is mirrored into the URL.
type State struct {
	Page     int
	Search   string
	Category string
}

func DefaultState() State {
	return State{Page: 1, Category: DefaultCategory}
}

// ParseState reads page, search and category from a query string. Missing
// or malformed values fall back to the defaults.
func ParseState(q url.Values) State {
	s := DefaultState()
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		s.Page = n
	}
	s.Search = q.Get("search")
	if c := strings.TrimSpace(q.Get("category")); c != "" {
		s.Category = c
	}
	return s
}

// Values is the shareable form of the state. Defaults are omitted so the
// plain listing URL has no query string.
func (s State) Values() url.Values {
	q := url.Values{}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	if s.Category != "" && s.Category != DefaultCategory {
		q.Set("category", s.Category)
	}
	return q
}

func (s State) normalize() State {
	if s.Page < 1 {
		s.Page = 1
	}
	if strings.TrimSpace(s.Category) == "" {
		s.Category = DefaultCategory
	}
	return s
}

// shouldCommit reports whether a debounced draft replaces the current search.
func shouldCommit(draft, current string) bool {
	if draft == current {
		return false
	}
	return draft == "" || len([]rune(draft)) >= MinSearchLength
}
