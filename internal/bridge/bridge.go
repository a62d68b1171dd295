// Package bridge exposes the catalog search actions as standard MCP tools
// over stdio, so standard MCP clients (editor agents, LLM frontends) can use
// the same catalog the wire protocol serves.
package bridge

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/filter"
	"github.com/usestring/carsearch-mcp/pkg/types"
)

// NewServer builds the stdio MCP server with all catalog tools registered.
func NewServer(cat catalog.Catalog, cfg *config.Config) *sdkmcp.Server {
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "carsearch-mcp",
		Version: "1.0.0",
	}, nil)

	limits := filter.Limits{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "search_cars",
		Description: "Search the car catalog with structured filters (brand, color, engine, fuel type, transmission, year/price/mileage/doors ranges) and free text. Returns a result page with totals.",
	}, toolSearchCars(cat, limits))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "get_brands",
		Description: "List car brands with the number of cars per brand",
	}, toolGetBrands(cat))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "get_colors",
		Description: "List car colors with the number of cars per color",
	}, toolGetColors(cat))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "get_engines",
		Description: "List engine specs with the number of cars per engine",
	}, toolGetEngines(cat))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "get_car_details",
		Description: "Get the full record of a single car by its catalog id",
	}, toolGetCarDetails(cat))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "get_filters_options",
		Description: "Enumerate available discrete filter values and numeric ranges for all filterable fields",
	}, toolGetFiltersOptions(cat))

	return srv
}

// Run serves the bridge over stdio until the context is cancelled.
func Run(ctx context.Context, cat catalog.Catalog, cfg *config.Config) error {
	return NewServer(cat, cfg).Run(ctx, &sdkmcp.StdioTransport{})
}

// SearchCarsInput is the input for search_cars.
type SearchCarsInput struct {
	Filters  map[string]any `json:"filters,omitempty" jsonschema:"Filter keys: brand_id/brand_name, color_id/color_name, engine_id/engine_name, car_model_id/car_model_name, car_name_id/car_name, fuel_type, transmission, search, and <field>_min/<field>_max for year_manufacture, year_model, price, mileage, doors. Unknown keys are rejected."`
	Page     int            `json:"page,omitempty" jsonschema:"Page number (default: 1)"`
	PageSize int            `json:"page_size,omitempty" jsonschema:"Results per page (default: 20, max: 100)"`
	Ordering string         `json:"ordering,omitempty" jsonschema:"Ordering field, optional leading '-' for descending (default: -created_at)"`
}

func toolSearchCars(cat catalog.Catalog, limits filter.Limits) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCarsInput) (*sdkmcp.CallToolResult, types.ResultPage, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCarsInput) (*sdkmcp.CallToolResult, types.ResultPage, error) {
		filters, err := filter.Translate(input.Filters)
		if err != nil {
			return nil, types.ResultPage{}, fmt.Errorf("invalid search filters: %w", err)
		}

		pagination := map[string]any{}
		if input.Page > 0 {
			pagination["page"] = input.Page
		}
		if input.PageSize > 0 {
			pagination["page_size"] = input.PageSize
		}
		if input.Ordering != "" {
			pagination["ordering"] = input.Ordering
		}
		page, err := filter.Normalize(pagination, limits)
		if err != nil {
			return nil, types.ResultPage{}, fmt.Errorf("invalid pagination: %w", err)
		}

		result, err := cat.SearchCars(ctx, filters, page)
		if err != nil {
			return nil, types.ResultPage{}, err
		}
		return nil, *result, nil
	}
}

// FacetsOutput wraps a facet listing.
type FacetsOutput struct {
	Options []types.FacetOption `json:"options"`
}

func toolGetBrands(cat catalog.Catalog) func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, FacetsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, FacetsOutput, error) {
		brands, err := cat.Brands(ctx)
		if err != nil {
			return nil, FacetsOutput{}, err
		}
		return nil, FacetsOutput{Options: brands}, nil
	}
}

func toolGetColors(cat catalog.Catalog) func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, FacetsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, FacetsOutput, error) {
		colors, err := cat.Colors(ctx)
		if err != nil {
			return nil, FacetsOutput{}, err
		}
		return nil, FacetsOutput{Options: colors}, nil
	}
}

// EnginesOutput wraps the engine facet listing.
type EnginesOutput struct {
	Options []types.EngineOption `json:"options"`
}

func toolGetEngines(cat catalog.Catalog) func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, EnginesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, EnginesOutput, error) {
		engines, err := cat.Engines(ctx)
		if err != nil {
			return nil, EnginesOutput{}, err
		}
		return nil, EnginesOutput{Options: engines}, nil
	}
}

// CarDetailsInput is the input for get_car_details.
type CarDetailsInput struct {
	CarID string `json:"car_id" jsonschema:"Catalog id of the car"`
}

// CarDetailsOutput is the output for get_car_details.
type CarDetailsOutput struct {
	Car *types.Car `json:"car"`
}

func toolGetCarDetails(cat catalog.Catalog) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CarDetailsInput) (*sdkmcp.CallToolResult, CarDetailsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CarDetailsInput) (*sdkmcp.CallToolResult, CarDetailsOutput, error) {
		if input.CarID == "" {
			return nil, CarDetailsOutput{}, fmt.Errorf("car_id is required")
		}
		car, err := cat.GetCar(ctx, input.CarID)
		if err != nil {
			return nil, CarDetailsOutput{}, err
		}
		return nil, CarDetailsOutput{Car: car}, nil
	}
}

func toolGetFiltersOptions(cat catalog.Catalog) func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, types.FiltersOptions, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input struct{}) (*sdkmcp.CallToolResult, types.FiltersOptions, error) {
		options, err := cat.FiltersOptions(ctx)
		if err != nil {
			return nil, types.FiltersOptions{}, err
		}
		return nil, *options, nil
	}
}
