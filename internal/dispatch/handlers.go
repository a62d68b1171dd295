package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/filter"
	"github.com/usestring/carsearch-mcp/internal/protocol"
	"github.com/usestring/carsearch-mcp/internal/session"
)

func (r *Registry) handleSearchCars(ctx context.Context, payload map[string]any, st *session.State, cat catalog.Catalog) Result {
	rawFilters, ok := objectField(payload, "filters")
	if !ok {
		return Errorf(protocol.CodeSearchError, "filters must be an object")
	}
	rawPagination, ok := objectField(payload, "pagination")
	if !ok {
		return Errorf(protocol.CodeSearchError, "pagination must be an object")
	}

	record := func(count int, success bool) {
		st.RecordSearch(session.HistoryEntry{
			Timestamp:    time.Now().UTC(),
			Action:       "search_cars",
			Filters:      rawFilters,
			Pagination:   rawPagination,
			ResultsCount: count,
			Success:      success,
		})
	}

	filters, err := filter.Translate(rawFilters)
	if err != nil {
		record(0, false)
		return Errorf(protocol.CodeSearchError, "invalid search filters: %v", err)
	}

	page, err := filter.Normalize(rawPagination, r.limits)
	if err != nil {
		record(0, false)
		return Errorf(protocol.CodeSearchError, "invalid pagination: %v", err)
	}

	result, err := cat.SearchCars(ctx, filters, page)
	if err != nil {
		slog.Error("car search failed", "error", err)
		record(0, false)
		return Errorf(protocol.CodeSearchError, "car search failed: %v", err)
	}

	record(result.Total, true)
	return Ok(result)
}

func (r *Registry) handleGetBrands(ctx context.Context, _ map[string]any, _ *session.State, cat catalog.Catalog) Result {
	brands, err := cat.Brands(ctx)
	if err != nil {
		slog.Error("listing brands failed", "error", err)
		return Errorf(protocol.CodeBrandsError, "listing brands failed: %v", err)
	}
	return Ok(map[string]any{"brands": brands})
}

func (r *Registry) handleGetColors(ctx context.Context, _ map[string]any, _ *session.State, cat catalog.Catalog) Result {
	colors, err := cat.Colors(ctx)
	if err != nil {
		slog.Error("listing colors failed", "error", err)
		return Errorf(protocol.CodeColorsError, "listing colors failed: %v", err)
	}
	return Ok(map[string]any{"colors": colors})
}

func (r *Registry) handleGetEngines(ctx context.Context, _ map[string]any, _ *session.State, cat catalog.Catalog) Result {
	engines, err := cat.Engines(ctx)
	if err != nil {
		slog.Error("listing engines failed", "error", err)
		return Errorf(protocol.CodeEnginesError, "listing engines failed: %v", err)
	}
	return Ok(map[string]any{"engines": engines})
}

func (r *Registry) handleGetCarDetails(ctx context.Context, payload map[string]any, _ *session.State, cat catalog.Catalog) Result {
	carID, _ := payload["car_id"].(string)
	carID = strings.TrimSpace(carID)
	if carID == "" {
		return Errorf(protocol.CodeMissingCarID, "car_id is required")
	}

	car, err := cat.GetCar(ctx, carID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Errorf(protocol.CodeCarNotFound, "car %q not found", carID)
		}
		slog.Error("car lookup failed", "car_id", carID, "error", err)
		return Errorf(protocol.CodeCarDetailsError, "car lookup failed: %v", err)
	}
	return Ok(map[string]any{"car": car})
}

func (r *Registry) handleGetFiltersOptions(ctx context.Context, _ map[string]any, _ *session.State, cat catalog.Catalog) Result {
	options, err := cat.FiltersOptions(ctx)
	if err != nil {
		slog.Error("listing filter options failed", "error", err)
		return Errorf(protocol.CodeFiltersOptionsErr, "listing filter options failed: %v", err)
	}
	return Ok(options)
}

func (r *Registry) handleGetMetrics(_ context.Context, _ map[string]any, st *session.State, _ catalog.Catalog) Result {
	return Ok(map[string]any{"metrics": st.SnapshotMetrics()})
}

func (r *Registry) handleGetSearchHistory(_ context.Context, _ map[string]any, st *session.State, _ catalog.Catalog) Result {
	history := st.History()
	return Ok(map[string]any{
		"history":        history,
		"total_searches": len(history),
	})
}

func (r *Registry) handleClearSearchHistory(_ context.Context, _ map[string]any, st *session.State, _ catalog.Catalog) Result {
	st.ClearHistory()
	return Ok(map[string]any{"message": "search history cleared"})
}

// objectField returns payload[key] as a map. Absent or nil values yield an
// empty map; any other non-object value reports failure.
func objectField(payload map[string]any, key string) (map[string]any, bool) {
	v, ok := payload[key]
	if !ok || v == nil {
		return map[string]any{}, true
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return obj, true
}
