// Package catalog provides the car catalog query interface consumed by the
// protocol handlers, an in-memory implementation backed by roaring bitmaps,
// and an LRU-cached decorator.
package catalog

import (
	"context"
	"errors"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// ErrNotFound is returned when a car id does not exist in the catalog.
var ErrNotFound = errors.New("catalog: car not found")

// Catalog is the query interface over the car inventory. Implementations
// must be safe for concurrent use; the protocol engine issues one query per
// handled request and attaches no timeout itself, so implementations should
// honor the caller's context deadline if one is set.
type Catalog interface {
	// SearchCars returns the page of cars matching the filter, ordered per
	// the page spec. A page past the end yields an empty page with correct
	// totals, not an error.
	SearchCars(ctx context.Context, filters types.FilterSpec, page types.PageSpec) (*types.ResultPage, error)

	// GetCar returns a single car by id, or ErrNotFound.
	GetCar(ctx context.Context, id string) (*types.Car, error)

	// Brands, Colors, and Engines list facet options with car counts,
	// omitting facets with no cars, sorted by name.
	Brands(ctx context.Context) ([]types.FacetOption, error)
	Colors(ctx context.Context) ([]types.FacetOption, error)
	Engines(ctx context.Context) ([]types.EngineOption, error)

	// FiltersOptions enumerates discrete values and numeric bounds for all
	// filterable fields.
	FiltersOptions(ctx context.Context) (*types.FiltersOptions, error)
}
