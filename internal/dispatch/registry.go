// Package dispatch maps protocol action names to their handlers and invokes
// them. The handler table is built once at startup and read-only afterwards.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/usestring/carsearch-mcp/internal/catalog"
	"github.com/usestring/carsearch-mcp/internal/config"
	"github.com/usestring/carsearch-mcp/internal/filter"
	"github.com/usestring/carsearch-mcp/internal/protocol"
	"github.com/usestring/carsearch-mcp/internal/session"
)

// Result is the outcome of one handled action: either data for a response
// frame, or an error code and message for an error frame.
type Result struct {
	Data    any
	Code    string
	Message string
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.Code == ""
}

// Ok builds a success result.
func Ok(data any) Result {
	return Result{Data: data}
}

// Errorf builds an error result.
func Errorf(code, format string, args ...any) Result {
	return Result{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Handler implements one action. Handlers are read-only with respect to the
// catalog; only clear_search_history mutates state, and only the invoking
// session's own history.
type Handler func(ctx context.Context, payload map[string]any, st *session.State, cat catalog.Catalog) Result

// Registry maps action names to handlers.
type Registry struct {
	handlers map[string]Handler
	limits   filter.Limits
}

// NewRegistry builds the registry with all builtin actions registered.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{
		limits: filter.Limits{
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
		},
	}
	r.handlers = map[string]Handler{
		"search_cars":          r.handleSearchCars,
		"get_brands":           r.handleGetBrands,
		"get_colors":           r.handleGetColors,
		"get_engines":          r.handleGetEngines,
		"get_car_details":      r.handleGetCarDetails,
		"get_filters_options":  r.handleGetFiltersOptions,
		"get_metrics":          r.handleGetMetrics,
		"get_search_history":   r.handleGetSearchHistory,
		"clear_search_history": r.handleClearSearchHistory,
	}
	return r
}

// Dispatch resolves and invokes the handler for an action. An unknown or
// missing action yields an UNSUPPORTED_ACTION result, never a panic.
func (r *Registry) Dispatch(ctx context.Context, action string, payload map[string]any, st *session.State, cat catalog.Catalog) Result {
	handler, ok := r.handlers[action]
	if !ok {
		if action == "" {
			return Errorf(protocol.CodeUnsupportedAction, "request payload is missing an action")
		}
		return Errorf(protocol.CodeUnsupportedAction, "action %q is not supported", action)
	}
	return handler(ctx, payload, st, cat)
}

// Actions lists the registered action names, sorted.
func (r *Registry) Actions() []string {
	actions := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		actions = append(actions, name)
	}
	sort.Strings(actions)
	return actions
}
