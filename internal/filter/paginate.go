package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// DefaultOrdering is applied when a request carries no ordering.
const DefaultOrdering = "-created_at"

// orderableFields is the whitelist of fields a client may order by, with an
// optional leading '-' for descending.
var orderableFields = map[string]bool{
	"created_at":       true,
	"price":            true,
	"year_manufacture": true,
	"year_model":       true,
	"mileage":          true,
	"doors":            true,
}

// Limits bound the pagination a client may request.
type Limits struct {
	DefaultPageSize int // applied when page_size is absent
	MaxPageSize     int // page_size is silently clamped down to this
}

// Normalize validates a raw pagination map into a PageSpec. An absent or nil
// map yields defaults. Page and page size below 1 are rejected; a page size
// above the maximum is clamped, not rejected. An ordering outside the
// whitelist is rejected with the offending field named.
func Normalize(raw map[string]any, lim Limits) (types.PageSpec, error) {
	if lim.DefaultPageSize <= 0 {
		lim.DefaultPageSize = 20
	}
	if lim.MaxPageSize <= 0 {
		lim.MaxPageSize = 100
	}

	spec := types.PageSpec{
		Page:     1,
		PageSize: lim.DefaultPageSize,
		Ordering: DefaultOrdering,
	}

	if v, ok := raw["page"]; ok && v != nil {
		page, err := intValue("page", v)
		if err != nil {
			return types.PageSpec{}, err
		}
		if page < 1 {
			return types.PageSpec{}, fmt.Errorf("page must be >= 1, got %d", page)
		}
		spec.Page = page
	}

	if v, ok := raw["page_size"]; ok && v != nil {
		size, err := intValue("page_size", v)
		if err != nil {
			return types.PageSpec{}, err
		}
		if size < 1 {
			return types.PageSpec{}, fmt.Errorf("page_size must be >= 1, got %d", size)
		}
		if size > lim.MaxPageSize {
			size = lim.MaxPageSize
		}
		spec.PageSize = size
	}

	if v, ok := raw["ordering"]; ok && v != nil {
		ordering, ok := v.(string)
		if !ok {
			return types.PageSpec{}, fmt.Errorf("ordering must be a string, got %T", v)
		}
		ordering = strings.TrimSpace(ordering)
		if ordering != "" {
			field := strings.TrimPrefix(ordering, "-")
			if !orderableFields[field] {
				return types.PageSpec{}, fmt.Errorf("invalid ordering field %q", field)
			}
			spec.Ordering = ordering
		}
	}

	return spec, nil
}

func intValue(key string, value any) (int, error) {
	switch n := value.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, value)
	}
}
