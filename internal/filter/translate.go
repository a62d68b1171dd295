// Package filter turns raw client filter and pagination maps into validated
// query specifications. Validation is fail-fast: the first offending key or
// value rejects the whole request, and the error names it.
package filter

import (
	"fmt"
	"strings"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// relationshipKeys map filter keys to relationship-ref constraints. The *_id
// variants match exactly; the name variants match by substring.
var relationshipKeys = map[string]bool{
	"brand_id":       true,
	"brand_name":     true,
	"color_id":       true,
	"color_name":     true,
	"engine_id":      true,
	"engine_name":    true,
	"car_model_id":   true,
	"car_model_name": true,
	"car_name_id":    true,
	"car_name":       true,
}

// equalsKeys map to exact-value constraints.
var equalsKeys = map[string]bool{
	"fuel_type":    true,
	"transmission": true,
}

// rangeBases are the numeric fields that accept <field>_min / <field>_max
// pairs, merged into a single range constraint.
var rangeBases = map[string]bool{
	"year_manufacture": true,
	"year_model":       true,
	"price":            true,
	"mileage":          true,
	"doors":            true,
}

// Translate converts a raw filter map from a request payload into a
// FilterSpec. Unknown keys reject the whole request; nil values are treated
// as absent.
func Translate(raw map[string]any) (types.FilterSpec, error) {
	spec := make(types.FilterSpec)
	if len(raw) == 0 {
		return spec, nil
	}

	ranges := make(map[string]types.Constraint)

	for key, value := range raw {
		if value == nil {
			continue
		}

		switch {
		case relationshipKeys[key]:
			s, err := stringValue(key, value)
			if err != nil {
				return nil, err
			}
			spec[key] = types.Constraint{Kind: types.KindRelationshipRef, Value: s}

		case equalsKeys[key]:
			s, err := stringValue(key, value)
			if err != nil {
				return nil, err
			}
			spec[key] = types.Constraint{Kind: types.KindEquals, Value: s}

		case key == "search":
			s, err := stringValue(key, value)
			if err != nil {
				return nil, err
			}
			if s != "" {
				spec[key] = types.Constraint{Kind: types.KindTextSearch, Value: s}
			}

		case isRangeKey(key):
			base, isMax := splitRangeKey(key)
			n, err := numberValue(key, value)
			if err != nil {
				return nil, err
			}
			c := ranges[base]
			c.Kind = types.KindRange
			if isMax {
				c.Max = &n
			} else {
				c.Min = &n
			}
			ranges[base] = c

		default:
			return nil, fmt.Errorf("unknown filter key %q", key)
		}
	}

	for base, c := range ranges {
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return nil, fmt.Errorf("%s_min (%v) is greater than %s_max (%v)", base, *c.Min, base, *c.Max)
		}
		spec[base] = c
	}

	return spec, nil
}

func isRangeKey(key string) bool {
	base, _ := splitRangeKey(key)
	return base != "" && rangeBases[base]
}

func splitRangeKey(key string) (base string, isMax bool) {
	switch {
	case strings.HasSuffix(key, "_min"):
		return strings.TrimSuffix(key, "_min"), false
	case strings.HasSuffix(key, "_max"):
		return strings.TrimSuffix(key, "_max"), true
	default:
		return "", false
	}
}

func stringValue(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("filter %q must be a string, got %T", key, value)
	}
	return strings.TrimSpace(s), nil
}

func numberValue(key string, value any) (float64, error) {
	switch n := value.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("filter %q must be a number, got %T", key, value)
	}
}
