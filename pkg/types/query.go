package types

import "fmt"

// ConstraintKind discriminates the constraint variants of a FilterSpec.
type ConstraintKind int

const (
	// KindEquals matches a field against an exact (case-insensitive) value.
	KindEquals ConstraintKind = iota
	// KindRange matches a numeric field against an optional [Min, Max].
	KindRange
	// KindTextSearch matches a term disjunctively across the searchable
	// text fields (car name, brand, model, color, engine label).
	KindTextSearch
	// KindRelationshipRef matches a related entity by id (exact) or by
	// name (substring).
	KindRelationshipRef
)

// Constraint is one normalized filter constraint. Value is set for equals,
// text search, and relationship refs; Min/Max for ranges (either bound may
// be nil).
type Constraint struct {
	Kind  ConstraintKind
	Value string
	Min   *float64
	Max   *float64
}

// FilterSpec is the validated query specification: a mapping of canonical
// field name to constraint. The text search constraint, when present, lives
// under the "search" key.
type FilterSpec map[string]Constraint

// Search returns the text search term, or "" when none is set.
func (f FilterSpec) Search() string {
	if c, ok := f["search"]; ok && c.Kind == KindTextSearch {
		return c.Value
	}
	return ""
}

// PageSpec is the normalized pagination request. Ordering is a whitelisted
// field name with an optional leading '-' for descending order.
type PageSpec struct {
	Page     int
	PageSize int
	Ordering string
}

// OrderField splits the ordering into its field name and direction.
func (p PageSpec) OrderField() (field string, descending bool) {
	if len(p.Ordering) > 0 && p.Ordering[0] == '-' {
		return p.Ordering[1:], true
	}
	return p.Ordering, false
}

// TotalPages computes ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func (k ConstraintKind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindRange:
		return "range"
	case KindTextSearch:
		return "text_search"
	case KindRelationshipRef:
		return "relationship_ref"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}
