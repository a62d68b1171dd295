// Package types defines the shared data model for the car search protocol:
// catalog records, facet options, and result pages.
package types

import "time"

// Fuel type values accepted by the catalog.
const (
	FuelGasoline = "gasoline"
	FuelEthanol  = "ethanol"
	FuelFlex     = "flex"
	FuelDiesel   = "diesel"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// Transmission values accepted by the catalog.
const (
	TransmissionManual        = "manual"
	TransmissionAutomatic     = "automatic"
	TransmissionCVT           = "cvt"
	TransmissionSemiAutomatic = "semi_automatic"
	TransmissionDualClutch    = "dual_clutch"
)

// Brand is a car manufacturer.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Color is a car color.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Engine is an engine specification.
type Engine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Displacement string `json:"displacement"`
	Power        int    `json:"power"`
}

// CarName is a commercial car title, owned by a brand.
type CarName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CarModel is a car model line.
type CarModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Car is a single catalog record with its related entities denormalized.
type Car struct {
	ID              string    `json:"id"`
	CarName         CarName   `json:"car_name"`
	Brand           Brand     `json:"brand"`
	CarModel        CarModel  `json:"car_model"`
	Color           Color     `json:"color"`
	Engine          Engine    `json:"engine"`
	YearManufacture int       `json:"year_manufacture"`
	YearModel       int       `json:"year_model"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	Mileage         int       `json:"mileage"`
	Doors           int       `json:"doors"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResultPage is one page of search results plus pagination bookkeeping.
// Total is the count across all pages under the active filter.
type ResultPage struct {
	Results    []Car `json:"results"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// FacetOption is a discrete filter value with the number of cars carrying it.
type FacetOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EngineOption is the engine facet entry; engines expose their spec alongside
// the count.
type EngineOption struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Displacement string `json:"displacement"`
	Power        int    `json:"power"`
	Count        int    `json:"count"`
}

// IntRange is an inclusive [Min, Max] over integer fields.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FloatRange is an inclusive [Min, Max] over float fields.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// YearRange covers both year columns of a car.
type YearRange struct {
	MinManufacture int `json:"min_manufacture"`
	MaxManufacture int `json:"max_manufacture"`
	MinModel       int `json:"min_model"`
	MaxModel       int `json:"max_model"`
}

// FiltersOptions enumerates the discrete values and numeric bounds available
// for every filterable field, for clients building filter UIs.
type FiltersOptions struct {
	FuelTypes     []string   `json:"fuel_types"`
	Transmissions []string   `json:"transmissions"`
	YearRange     YearRange  `json:"year_range"`
	PriceRange    FloatRange `json:"price_range"`
	MileageRange  IntRange   `json:"mileage_range"`
	DoorsRange    IntRange   `json:"doors_range"`
}
