package catalog

import (
	"time"

	"github.com/usestring/carsearch-mcp/pkg/types"
)

// SeedInventory loads a small deterministic inventory into the store, for
// development servers and examples.
func SeedInventory(m *MemStore) {
	brands := map[string]types.Brand{
		"toyota":     {ID: "b-toyota", Name: "Toyota"},
		"honda":      {ID: "b-honda", Name: "Honda"},
		"ford":       {ID: "b-ford", Name: "Ford"},
		"chevrolet":  {ID: "b-chevrolet", Name: "Chevrolet"},
		"volkswagen": {ID: "b-volkswagen", Name: "Volkswagen"},
	}
	colors := map[string]types.Color{
		"black":  {ID: "c-black", Name: "Black"},
		"white":  {ID: "c-white", Name: "White"},
		"silver": {ID: "c-silver", Name: "Silver"},
		"red":    {ID: "c-red", Name: "Red"},
		"blue":   {ID: "c-blue", Name: "Blue"},
	}
	engines := map[string]types.Engine{
		"1.0":  {ID: "e-10", Name: "1.0L 75cv", Displacement: "1.0", Power: 75},
		"1.6":  {ID: "e-16", Name: "1.6L 120cv", Displacement: "1.6", Power: 120},
		"2.0":  {ID: "e-20", Name: "2.0L 170cv", Displacement: "2.0", Power: 170},
		"2.0t": {ID: "e-20t", Name: "2.0L Turbo 250cv", Displacement: "2.0", Power: 250},
	}
	models := map[string]types.CarModel{
		"hatch": {ID: "m-hatch", Name: "Hatch"},
		"sedan": {ID: "m-sedan", Name: "Sedan"},
		"suv":   {ID: "m-suv", Name: "SUV"},
	}

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	cars := []struct {
		id, name, brand, model, color, engine string
		yearM, yearMdl, mileage, doors        int
		fuel, transmission                    string
		price                                 float64
	}{
		{"car-001", "Corolla XEi", "toyota", "sedan", "silver", "2.0", 2021, 2022, 35000, 4, types.FuelFlex, types.TransmissionCVT, 92000},
		{"car-002", "Corolla Cross", "toyota", "suv", "white", "2.0", 2022, 2022, 22000, 4, types.FuelHybrid, types.TransmissionCVT, 118000},
		{"car-003", "Yaris XL", "toyota", "hatch", "red", "1.6", 2020, 2021, 48000, 4, types.FuelFlex, types.TransmissionManual, 64000},
		{"car-004", "Civic Touring", "honda", "sedan", "black", "2.0t", 2021, 2021, 30000, 4, types.FuelGasoline, types.TransmissionCVT, 135000},
		{"car-005", "HR-V EXL", "honda", "suv", "silver", "1.6", 2022, 2023, 15000, 4, types.FuelFlex, types.TransmissionCVT, 112000},
		{"car-006", "Fit LX", "honda", "hatch", "blue", "1.0", 2019, 2019, 61000, 4, types.FuelFlex, types.TransmissionManual, 52000},
		{"car-007", "Ka SE", "ford", "hatch", "white", "1.0", 2019, 2020, 55000, 4, types.FuelFlex, types.TransmissionManual, 45000},
		{"car-008", "Ranger XLT", "ford", "suv", "black", "2.0t", 2022, 2022, 18000, 4, types.FuelDiesel, types.TransmissionAutomatic, 185000},
		{"car-009", "Onix LT", "chevrolet", "hatch", "red", "1.0", 2021, 2021, 28000, 4, types.FuelFlex, types.TransmissionManual, 58000},
		{"car-010", "Tracker Premier", "chevrolet", "suv", "blue", "1.6", 2023, 2023, 8000, 4, types.FuelFlex, types.TransmissionAutomatic, 125000},
		{"car-011", "Golf GTI", "volkswagen", "hatch", "white", "2.0t", 2020, 2020, 42000, 2, types.FuelGasoline, types.TransmissionDualClutch, 145000},
		{"car-012", "Virtus Highline", "volkswagen", "sedan", "silver", "1.6", 2023, 2024, 5000, 4, types.FuelFlex, types.TransmissionAutomatic, 98000},
	}

	for i, c := range cars {
		m.Add(types.Car{
			ID:              c.id,
			CarName:         types.CarName{ID: "cn-" + c.id, Name: c.name},
			Brand:           brands[c.brand],
			CarModel:        models[c.model],
			Color:           colors[c.color],
			Engine:          engines[c.engine],
			YearManufacture: c.yearM,
			YearModel:       c.yearMdl,
			FuelType:        c.fuel,
			Transmission:    c.transmission,
			Mileage:         c.mileage,
			Doors:           c.doors,
			Price:           c.price,
			CreatedAt:       base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
}
