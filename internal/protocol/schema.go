package protocol

import (
	"encoding/json"
	"fmt"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// envelopeSchema is the structural contract for inbound frames. Only
// mcp_request frames are accepted from clients; request_id is optional but
// must be a string when present.
const envelopeSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["type", "data"],
	"properties": {
		"type": {"const": "mcp_request"},
		"request_id": {"type": "string"},
		"data": {"type": "object"}
	}
}`

var envelopeValidator = mustCompileEnvelope()

func mustCompileEnvelope() *jsonschema.Schema {
	var schemaValue any
	if err := json.Unmarshal([]byte(envelopeSchema), &schemaValue); err != nil {
		panic(fmt.Sprintf("protocol: envelope schema is not valid JSON: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("envelope.json", schemaValue); err != nil {
		panic(fmt.Sprintf("protocol: adding envelope schema resource: %v", err))
	}
	compiled, err := compiler.Compile("envelope.json")
	if err != nil {
		panic(fmt.Sprintf("protocol: compiling envelope schema: %v", err))
	}
	return compiled
}

func validateEnvelope(value any) error {
	return envelopeValidator.Validate(value)
}

// SearchCarsPayload documents the search_cars action payload. It is used to
// generate the JSON schema advertised in the welcome frame, not to decode
// requests (the filter translator validates the raw maps).
type SearchCarsPayload struct {
	Filters    *CarFilters `json:"filters,omitempty" jsonschema:"description=Search filters; unknown keys are rejected"`
	Pagination *Pagination `json:"pagination,omitempty" jsonschema:"description=Page, page size, and ordering"`
}

// CarFilters lists every accepted filter key.
type CarFilters struct {
	BrandID            string   `json:"brand_id,omitempty"`
	BrandName          string   `json:"brand_name,omitempty" jsonschema:"description=Brand name, substring match"`
	ColorID            string   `json:"color_id,omitempty"`
	ColorName          string   `json:"color_name,omitempty"`
	EngineID           string   `json:"engine_id,omitempty"`
	EngineName         string   `json:"engine_name,omitempty"`
	CarModelID         string   `json:"car_model_id,omitempty"`
	CarModelName       string   `json:"car_model_name,omitempty"`
	CarNameID          string   `json:"car_name_id,omitempty"`
	CarName            string   `json:"car_name,omitempty"`
	YearManufactureMin *int     `json:"year_manufacture_min,omitempty"`
	YearManufactureMax *int     `json:"year_manufacture_max,omitempty"`
	YearModelMin       *int     `json:"year_model_min,omitempty"`
	YearModelMax       *int     `json:"year_model_max,omitempty"`
	PriceMin           *float64 `json:"price_min,omitempty"`
	PriceMax           *float64 `json:"price_max,omitempty"`
	MileageMin         *int     `json:"mileage_min,omitempty"`
	MileageMax         *int     `json:"mileage_max,omitempty"`
	DoorsMin           *int     `json:"doors_min,omitempty"`
	DoorsMax           *int     `json:"doors_max,omitempty"`
	FuelType           string   `json:"fuel_type,omitempty"`
	Transmission       string   `json:"transmission,omitempty"`
	Search             string   `json:"search,omitempty" jsonschema:"description=Free text across name, brand, model, color, and engine"`
}

// Pagination documents the pagination payload.
type Pagination struct {
	Page     int    `json:"page,omitempty" jsonschema:"minimum=1,default=1"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"minimum=1,default=20"`
	Ordering string `json:"ordering,omitempty" jsonschema:"description=Whitelisted field with optional leading - for descending,default=-created_at"`
}

// CarDetailsPayload documents the get_car_details action payload.
type CarDetailsPayload struct {
	CarID string `json:"car_id" jsonschema:"description=Catalog id of the car"`
}

// ActionSchemas returns the JSON schemas advertised in the welcome frame for
// actions that take a payload.
func ActionSchemas() map[string]any {
	reflector := &invopop.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	return map[string]any{
		"search_cars":     schemaValue(reflector.Reflect(&SearchCarsPayload{})),
		"get_car_details": schemaValue(reflector.Reflect(&CarDetailsPayload{})),
	}
}

func schemaValue(s *invopop.Schema) any {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return value
}
