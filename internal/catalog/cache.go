package catalog

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// Cached decorates a Catalog with an LRU cache over car lookups and a
// memoized copy of the facet listings. Search queries pass through
// uncached. Call Invalidate after mutating the underlying catalog.
type Cached struct {
	inner Catalog
	cars  *lru.Cache[string, *types.Car]

	mu      sync.Mutex
	brands  []types.FacetOption
	colors  []types.FacetOption
	engines []types.EngineOption
	options *types.FiltersOptions
}

// NewCached wraps a catalog with caching. maxCars bounds the car LRU.
func NewCached(inner Catalog, maxCars int) (*Cached, error) {
	cars, err := lru.New[string, *types.Car](maxCars)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cars: cars}, nil
}

// SearchCars implements Catalog. Searches are not cached.
func (c *Cached) SearchCars(ctx context.Context, filters types.FilterSpec, page types.PageSpec) (*types.ResultPage, error) {
	return c.inner.SearchCars(ctx, filters, page)
}

// GetCar implements Catalog.
func (c *Cached) GetCar(ctx context.Context, id string) (*types.Car, error) {
	if car, ok := c.cars.Get(id); ok {
		return car, nil
	}
	car, err := c.inner.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cars.Add(id, car)
	return car, nil
}

// Brands implements Catalog.
func (c *Cached) Brands(ctx context.Context) ([]types.FacetOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.brands != nil {
		return c.brands, nil
	}
	brands, err := c.inner.Brands(ctx)
	if err != nil {
		return nil, err
	}
	c.brands = brands
	return brands, nil
}

// Colors implements Catalog.
func (c *Cached) Colors(ctx context.Context) ([]types.FacetOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colors != nil {
		return c.colors, nil
	}
	colors, err := c.inner.Colors(ctx)
	if err != nil {
		return nil, err
	}
	c.colors = colors
	return colors, nil
}

// Engines implements Catalog.
func (c *Cached) Engines(ctx context.Context) ([]types.EngineOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engines != nil {
		return c.engines, nil
	}
	engines, err := c.inner.Engines(ctx)
	if err != nil {
		return nil, err
	}
	c.engines = engines
	return engines, nil
}

// FiltersOptions implements Catalog.
func (c *Cached) FiltersOptions(ctx context.Context) (*types.FiltersOptions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.options != nil {
		return c.options, nil
	}
	options, err := c.inner.FiltersOptions(ctx)
	if err != nil {
		return nil, err
	}
	c.options = options
	return options, nil
}

// Invalidate drops all cached entries.
func (c *Cached) Invalidate() {
	c.cars.Purge()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brands = nil
	c.colors = nil
	c.engines = nil
	c.options = nil
}
