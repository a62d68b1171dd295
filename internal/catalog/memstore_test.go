package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

func testStore(t *testing.T) *MemStore {
	t.Helper()
	m := NewMemStore()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	cars := []types.Car{
		{
			ID:              "car-1",
			CarName:         types.CarName{ID: "cn-1", Name: "corolla xei"},
			Brand:           types.Brand{ID: "b-1", Name: "toyota"},
			CarModel:        types.CarModel{ID: "m-1", Name: "sedan"},
			Color:           types.Color{ID: "c-1", Name: "silver"},
			Engine:          types.Engine{ID: "e-1", Name: "2.0L 170cv", Displacement: "2.0", Power: 170},
			YearManufacture: 2021, YearModel: 2022,
			FuelType: types.FuelFlex, Transmission: types.TransmissionCVT,
			Mileage: 35000, Doors: 4, Price: 92000,
			CreatedAt: base,
		},
		{
			ID:              "car-2",
			CarName:         types.CarName{ID: "cn-2", Name: "corolla cross"},
			Brand:           types.Brand{ID: "b-1", Name: "toyota"},
			CarModel:        types.CarModel{ID: "m-2", Name: "suv"},
			Color:           types.Color{ID: "c-2", Name: "white"},
			Engine:          types.Engine{ID: "e-1", Name: "2.0L 170cv", Displacement: "2.0", Power: 170},
			YearManufacture: 2022, YearModel: 2022,
			FuelType: types.FuelHybrid, Transmission: types.TransmissionCVT,
			Mileage: 22000, Doors: 4, Price: 118000,
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID:              "car-3",
			CarName:         types.CarName{ID: "cn-3", Name: "civic touring"},
			Brand:           types.Brand{ID: "b-2", Name: "honda"},
			CarModel:        types.CarModel{ID: "m-1", Name: "sedan"},
			Color:           types.Color{ID: "c-3", Name: "black"},
			Engine:          types.Engine{ID: "e-2", Name: "2.0L Turbo 250cv", Displacement: "2.0", Power: 250},
			YearManufacture: 2019, YearModel: 2019,
			FuelType: types.FuelGasoline, Transmission: types.TransmissionCVT,
			Mileage: 60000, Doors: 4, Price: 135000,
			CreatedAt: base.Add(48 * time.Hour),
		},
	}
	for _, car := range cars {
		m.Add(car)
	}
	return m
}

func page(n, size int, ordering string) types.PageSpec {
	return types.PageSpec{Page: n, PageSize: size, Ordering: ordering}
}

func TestMemStore_SearchAll(t *testing.T) {
	m := testStore(t)

	result, err := m.SearchCars(context.Background(), types.FilterSpec{}, page(1, 20, "-created_at"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Results, 3)
	// Descending created_at: newest first.
	assert.Equal(t, "car-3", result.Results[0].ID)
	assert.Equal(t, "car-1", result.Results[2].ID)
}

func TestMemStore_BrandNameSubstring(t *testing.T) {
	m := testStore(t)

	spec := types.FilterSpec{
		"brand_name": {Kind: types.KindRelationshipRef, Value: "TOYO"},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	for _, car := range result.Results {
		assert.Equal(t, "Toyota", car.Brand.Name)
	}
}

func TestMemStore_RelationshipByID(t *testing.T) {
	m := testStore(t)

	spec := types.FilterSpec{
		"engine_id": {Kind: types.KindRelationshipRef, Value: "e-2"},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "car-3", result.Results[0].ID)
}

func TestMemStore_UnknownRefID(t *testing.T) {
	m := testStore(t)

	spec := types.FilterSpec{
		"brand_id": {Kind: types.KindRelationshipRef, Value: "nope"},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestMemStore_EqualsFuelType(t *testing.T) {
	m := testStore(t)

	spec := types.FilterSpec{
		"fuel_type": {Kind: types.KindEquals, Value: "hybrid"},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "car-2", result.Results[0].ID)
}

func TestMemStore_RangePostFilter(t *testing.T) {
	m := testStore(t)

	min := float64(2020)
	max := float64(100000)
	spec := types.FilterSpec{
		"year_manufacture": {Kind: types.KindRange, Min: &min},
		"price":            {Kind: types.KindRange, Max: &max},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "car-1", result.Results[0].ID)
}

func TestMemStore_TextSearchAcrossFields(t *testing.T) {
	m := testStore(t)

	spec := types.FilterSpec{
		"search": {Kind: types.KindTextSearch, Value: "turbo"},
	}
	result, err := m.SearchCars(context.Background(), spec, page(1, 20, "-created_at"))
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "car-3", result.Results[0].ID)
}

func TestMemStore_OrderByPriceDescending(t *testing.T) {
	m := testStore(t)

	result, err := m.SearchCars(context.Background(), types.FilterSpec{}, page(1, 20, "-price"))
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, float64(135000), result.Results[0].Price)
	assert.Equal(t, float64(118000), result.Results[1].Price)
	assert.Equal(t, float64(92000), result.Results[2].Price)
}

func TestMemStore_PageBeyondRangeIsEmpty(t *testing.T) {
	m := testStore(t)

	result, err := m.SearchCars(context.Background(), types.FilterSpec{}, page(5, 20, "-created_at"))
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 5, result.Page)
}

func TestMemStore_Pagination(t *testing.T) {
	m := testStore(t)

	result, err := m.SearchCars(context.Background(), types.FilterSpec{}, page(2, 2, "price"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Results, 1)
	assert.Equal(t, float64(135000), result.Results[0].Price)
}

func TestMemStore_GetCar(t *testing.T) {
	m := testStore(t)

	car, err := m.GetCar(context.Background(), "car-2")
	require.NoError(t, err)
	assert.Equal(t, "Corolla Cross", car.CarName.Name)

	_, err = m.GetCar(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_BrandFacets(t *testing.T) {
	m := testStore(t)

	brands, err := m.Brands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 2)
	// Sorted by name.
	assert.Equal(t, "Honda", brands[0].Name)
	assert.Equal(t, 1, brands[0].Count)
	assert.Equal(t, "Toyota", brands[1].Name)
	assert.Equal(t, 2, brands[1].Count)
}

func TestMemStore_EngineFacets(t *testing.T) {
	m := testStore(t)

	engines, err := m.Engines(context.Background())
	require.NoError(t, err)
	require.Len(t, engines, 2)
	assert.Equal(t, "2.0L 170cv", engines[0].Name)
	assert.Equal(t, "2.0", engines[0].Displacement)
	assert.Equal(t, 170, engines[0].Power)
	assert.Equal(t, 2, engines[0].Count)
}

func TestMemStore_FiltersOptions(t *testing.T) {
	m := testStore(t)

	opts, err := m.FiltersOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"flex", "gasoline", "hybrid"}, opts.FuelTypes)
	assert.Equal(t, []string{"cvt"}, opts.Transmissions)
	assert.Equal(t, 2019, opts.YearRange.MinManufacture)
	assert.Equal(t, 2022, opts.YearRange.MaxManufacture)
	assert.Equal(t, float64(92000), opts.PriceRange.Min)
	assert.Equal(t, float64(135000), opts.PriceRange.Max)
	assert.Equal(t, 22000, opts.MileageRange.Min)
	assert.Equal(t, 60000, opts.MileageRange.Max)
}

func TestMemStore_FiltersOptionsEmptyCatalog(t *testing.T) {
	m := NewMemStore()

	opts, err := m.FiltersOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackMinYear, opts.YearRange.MinManufacture)
	assert.Equal(t, fallbackMaxYear, opts.YearRange.MaxManufacture)
	assert.Equal(t, fallbackMinDoors, opts.DoorsRange.Min)
	assert.Equal(t, fallbackMaxDoors, opts.DoorsRange.Max)
	assert.Empty(t, opts.FuelTypes)
}

func TestSeedInventory(t *testing.T) {
	m := NewMemStore()
	SeedInventory(m)
	assert.Equal(t, 12, m.Len())

	brands, err := m.Brands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 5)
}
