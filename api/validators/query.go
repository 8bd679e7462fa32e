package validators

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
)

// ParseQueryInt reads ?key= as an integer in [lo, hi]. An absent or blank
// value yields def.
func ParseQueryInt(r *http.Request, key string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be a whole number", key).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	if n < lo || n > hi {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, rangeMessage(key, lo, hi)).
			WithDetails(map[string]any{"field": key, "min": lo, "max": hi})
	}
	return n, nil
}

// ParsePage reads ?page= and ?limit= for list endpoints. A limit above
// maxLimit is clamped rather than rejected, matching what the storefront
// listing expects from the CMS API.
func ParsePage(r *http.Request, defaultLimit, maxLimit int) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, math.MaxInt32)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := ParseQueryInt(r, "limit", defaultLimit, 1, math.MaxInt32)
	if err != nil {
		return pagination.Params{}, err
	}
	if maxLimit > 0 {
		limit = min(limit, maxLimit)
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

func rangeMessage(key string, lo, hi int) string {
	if hi == math.MaxInt32 {
		return fmt.Sprintf("%s must be at least %d", key, lo)
	}
	return fmt.Sprintf("%s must be between %d and %d", key, lo, hi)
}
