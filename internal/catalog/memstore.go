package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// Fallback bounds reported by FiltersOptions over an empty catalog.
const (
	fallbackMinYear  = 1900
	fallbackMaxYear  = 9999
	fallbackMinDoors = 2
	fallbackMaxDoors = 8
)

// refDims maps relationship filter keys to their index dimension and whether
// the match is by name (substring) rather than by id (exact).
var refDims = map[string]struct {
	dim    string
	byName bool
}{
	"brand_id":       {"brand", false},
	"brand_name":     {"brand", true},
	"color_id":       {"color", false},
	"color_name":     {"color", true},
	"engine_id":      {"engine", false},
	"engine_name":    {"engine", true},
	"car_model_id":   {"car_model", false},
	"car_model_name": {"car_model", true},
	"car_name_id":    {"car_name", false},
	"car_name":       {"car_name", true},
}

// MemStore is an in-memory Catalog backed by roaring posting bitmaps, one
// per indexed attribute value. Filter planning ANDs the equals and
// relationship bitmaps first, then post-filters ranges and text search over
// the surviving candidates.
type MemStore struct {
	mu   sync.RWMutex
	cars []types.Car
	byID map[string]uint32

	// dims holds posting bitmaps: dimension -> key -> docs. Relationship
	// dimensions are keyed by entity id, fuel/transmission by lowercased
	// value.
	dims map[string]map[string]*roaring.Bitmap
	// dimNames holds entity display names per relationship dimension, for
	// substring matching and facet listings.
	dimNames map[string]map[string]string

	brands    map[string]types.Brand
	colors    map[string]types.Color
	engines   map[string]types.Engine
	carNames  map[string]types.CarName
	carModels map[string]types.CarModel
}

// NewMemStore creates an empty in-memory catalog.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:      make(map[string]uint32),
		dims:      make(map[string]map[string]*roaring.Bitmap),
		dimNames:  make(map[string]map[string]string),
		brands:    make(map[string]types.Brand),
		colors:    make(map[string]types.Color),
		engines:   make(map[string]types.Engine),
		carNames:  make(map[string]types.CarName),
		carModels: make(map[string]types.CarModel),
	}
}

// Add indexes one car. Entity names are normalized on the way in.
func (m *MemStore) Add(car types.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()

	car.Brand.Name = NormalizeName(car.Brand.Name)
	car.Color.Name = NormalizeName(car.Color.Name)
	car.CarModel.Name = NormalizeName(car.CarModel.Name)
	car.CarName.Name = NormalizeName(car.CarName.Name)

	doc := uint32(len(m.cars))
	m.cars = append(m.cars, car)
	m.byID[car.ID] = doc

	m.brands[car.Brand.ID] = car.Brand
	m.colors[car.Color.ID] = car.Color
	m.engines[car.Engine.ID] = car.Engine
	m.carNames[car.CarName.ID] = car.CarName
	m.carModels[car.CarModel.ID] = car.CarModel

	m.index("brand", car.Brand.ID, car.Brand.Name, doc)
	m.index("color", car.Color.ID, car.Color.Name, doc)
	m.index("engine", car.Engine.ID, car.Engine.Name, doc)
	m.index("car_model", car.CarModel.ID, car.CarModel.Name, doc)
	m.index("car_name", car.CarName.ID, car.CarName.Name, doc)
	m.index("fuel_type", strings.ToLower(car.FuelType), "", doc)
	m.index("transmission", strings.ToLower(car.Transmission), "", doc)
}

func (m *MemStore) index(dim, key, name string, doc uint32) {
	if m.dims[dim] == nil {
		m.dims[dim] = make(map[string]*roaring.Bitmap)
	}
	bm := m.dims[dim][key]
	if bm == nil {
		bm = roaring.New()
		m.dims[dim][key] = bm
	}
	bm.Add(doc)

	if name != "" {
		if m.dimNames[dim] == nil {
			m.dimNames[dim] = make(map[string]string)
		}
		m.dimNames[dim][key] = name
	}
}

// Len returns the number of cars in the catalog.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cars)
}

// SearchCars implements Catalog.
func (m *MemStore) SearchCars(ctx context.Context, filters types.FilterSpec, page types.PageSpec) (*types.ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := m.planFilters(filters)
	matched := m.postFilter(candidates, filters)
	total := len(matched)

	m.sortCars(matched, page)

	start := (page.Page - 1) * page.PageSize
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}

	results := make([]types.Car, end-start)
	copy(results, matched[start:end])

	return &types.ResultPage{
		Results:    results,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: types.TotalPages(total, page.PageSize),
	}, nil
}

// planFilters ANDs the bitmap-indexed constraints into a candidate set.
func (m *MemStore) planFilters(filters types.FilterSpec) *roaring.Bitmap {
	result := roaring.New()
	result.AddRange(0, uint64(len(m.cars)))

	for field, c := range filters {
		var bm *roaring.Bitmap
		switch c.Kind {
		case types.KindRelationshipRef:
			bm = m.refBitmap(field, c.Value)
		case types.KindEquals:
			dim := m.dims[field]
			if dim != nil {
				bm = dim[strings.ToLower(c.Value)]
			}
			if bm == nil {
				bm = roaring.New()
			}
		default:
			continue // ranges and text search are post-filtered
		}
		result.And(bm)
		if result.IsEmpty() {
			return result
		}
	}
	return result
}

func (m *MemStore) refBitmap(field, value string) *roaring.Bitmap {
	ref, ok := refDims[field]
	if !ok {
		return roaring.New()
	}
	if !ref.byName {
		if bm := m.dims[ref.dim][value]; bm != nil {
			return bm
		}
		return roaring.New()
	}

	needle := strings.ToLower(value)
	out := roaring.New()
	for id, name := range m.dimNames[ref.dim] {
		if strings.Contains(strings.ToLower(name), needle) {
			out.Or(m.dims[ref.dim][id])
		}
	}
	return out
}

// postFilter scans candidates applying range and text search constraints.
func (m *MemStore) postFilter(candidates *roaring.Bitmap, filters types.FilterSpec) []types.Car {
	search := strings.ToLower(filters.Search())

	matched := make([]types.Car, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		car := m.cars[it.Next()]
		if !matchRanges(car, filters) {
			continue
		}
		if search != "" && !matchSearch(car, search) {
			continue
		}
		matched = append(matched, car)
	}
	return matched
}

func matchRanges(car types.Car, filters types.FilterSpec) bool {
	for field, c := range filters {
		if c.Kind != types.KindRange {
			continue
		}
		v, ok := rangeValue(car, field)
		if !ok {
			return false
		}
		if c.Min != nil && v < *c.Min {
			return false
		}
		if c.Max != nil && v > *c.Max {
			return false
		}
	}
	return true
}

func rangeValue(car types.Car, field string) (float64, bool) {
	switch field {
	case "year_manufacture":
		return float64(car.YearManufacture), true
	case "year_model":
		return float64(car.YearModel), true
	case "price":
		return car.Price, true
	case "mileage":
		return float64(car.Mileage), true
	case "doors":
		return float64(car.Doors), true
	default:
		return 0, false
	}
}

// matchSearch applies the disjunctive text search over the searchable
// fields: car name, brand, model, color, and engine label.
func matchSearch(car types.Car, needle string) bool {
	for _, field := range []string{
		car.CarName.Name,
		car.Brand.Name,
		car.CarModel.Name,
		car.Color.Name,
		car.Engine.Name,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (m *MemStore) sortCars(cars []types.Car, page types.PageSpec) {
	field, desc := page.OrderField()

	less := func(a, b types.Car) bool {
		switch field {
		case "price":
			return a.Price < b.Price
		case "year_manufacture":
			return a.YearManufacture < b.YearManufacture
		case "year_model":
			return a.YearModel < b.YearModel
		case "mileage":
			return a.Mileage < b.Mileage
		case "doors":
			return a.Doors < b.Doors
		default: // created_at
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(cars, func(i, j int) bool {
		if desc {
			return less(cars[j], cars[i])
		}
		return less(cars[i], cars[j])
	})
}

// GetCar implements Catalog.
func (m *MemStore) GetCar(ctx context.Context, id string) (*types.Car, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	car := m.cars[doc]
	return &car, nil
}

// Brands implements Catalog.
func (m *MemStore) Brands(ctx context.Context) ([]types.FacetOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.FacetOption, 0, len(m.brands))
	for id, brand := range m.brands {
		if count := m.dimCount("brand", id); count > 0 {
			out = append(out, types.FacetOption{ID: id, Name: brand.Name, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Colors implements Catalog.
func (m *MemStore) Colors(ctx context.Context) ([]types.FacetOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.FacetOption, 0, len(m.colors))
	for id, color := range m.colors {
		if count := m.dimCount("color", id); count > 0 {
			out = append(out, types.FacetOption{ID: id, Name: color.Name, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Engines implements Catalog.
func (m *MemStore) Engines(ctx context.Context) ([]types.EngineOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.EngineOption, 0, len(m.engines))
	for id, engine := range m.engines {
		count := m.dimCount("engine", id)
		if count == 0 {
			continue
		}
		out = append(out, types.EngineOption{
			ID:           id,
			Name:         engine.Name,
			Displacement: engine.Displacement,
			Power:        engine.Power,
			Count:        count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) dimCount(dim, key string) int {
	if bm := m.dims[dim][key]; bm != nil {
		return int(bm.GetCardinality())
	}
	return 0
}

// FiltersOptions implements Catalog.
func (m *MemStore) FiltersOptions(ctx context.Context) (*types.FiltersOptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	opts := &types.FiltersOptions{
		FuelTypes:     sortedKeys(m.dims["fuel_type"]),
		Transmissions: sortedKeys(m.dims["transmission"]),
		YearRange: types.YearRange{
			MinManufacture: fallbackMinYear,
			MaxManufacture: fallbackMaxYear,
			MinModel:       fallbackMinYear,
			MaxModel:       fallbackMaxYear,
		},
		DoorsRange: types.IntRange{Min: fallbackMinDoors, Max: fallbackMaxDoors},
	}

	for i, car := range m.cars {
		if i == 0 {
			opts.YearRange = types.YearRange{
				MinManufacture: car.YearManufacture,
				MaxManufacture: car.YearManufacture,
				MinModel:       car.YearModel,
				MaxModel:       car.YearModel,
			}
			opts.PriceRange = types.FloatRange{Min: car.Price, Max: car.Price}
			opts.MileageRange = types.IntRange{Min: car.Mileage, Max: car.Mileage}
			opts.DoorsRange = types.IntRange{Min: car.Doors, Max: car.Doors}
			continue
		}
		opts.YearRange.MinManufacture = min(opts.YearRange.MinManufacture, car.YearManufacture)
		opts.YearRange.MaxManufacture = max(opts.YearRange.MaxManufacture, car.YearManufacture)
		opts.YearRange.MinModel = min(opts.YearRange.MinModel, car.YearModel)
		opts.YearRange.MaxModel = max(opts.YearRange.MaxModel, car.YearModel)
		opts.PriceRange.Min = min(opts.PriceRange.Min, car.Price)
		opts.PriceRange.Max = max(opts.PriceRange.Max, car.Price)
		opts.MileageRange.Min = min(opts.MileageRange.Min, car.Mileage)
		opts.MileageRange.Max = max(opts.MileageRange.Max, car.Mileage)
		opts.DoorsRange.Min = min(opts.DoorsRange.Min, car.Doors)
		opts.DoorsRange.Max = max(opts.DoorsRange.Max, car.Doors)
	}

	return opts, nil
}

func sortedKeys(bitmaps map[string]*roaring.Bitmap) []string {
	keys := make([]string, 0, len(bitmaps))
	for k := range bitmaps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
