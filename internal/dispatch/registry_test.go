package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/carsearch-mcp/internal/protocol"
)

func TestRegistry_UnsupportedAction(t *testing.T) {
	reg := NewRegistry(testConfig())

	result := reg.Dispatch(context.Background(), "self_destruct", nil, testState(), scenarioStore(t))
	require.False(t, result.OK())
	assert.Equal(t, protocol.CodeUnsupportedAction, result.Code)
	assert.Contains(t, result.Message, `"self_destruct"`)
}

func TestRegistry_MissingAction(t *testing.T) {
	reg := NewRegistry(testConfig())

	result := reg.Dispatch(context.Background(), "", nil, testState(), scenarioStore(t))
	require.False(t, result.OK())
	assert.Equal(t, protocol.CodeUnsupportedAction, result.Code)
}

func TestRegistry_ActionsSorted(t *testing.T) {
	reg := NewRegistry(testConfig())

	assert.Equal(t, []string{
		"clear_search_history",
		"get_brands",
		"get_car_details",
		"get_colors",
		"get_engines",
		"get_filters_options",
		"get_metrics",
		"get_search_history",
		"search_cars",
	}, reg.Actions())
}

func TestResult_Helpers(t *testing.T) {
	ok := Ok("payload")
	assert.True(t, ok.OK())
	assert.Equal(t, "payload", ok.Data)

	bad := Errorf(protocol.CodeInternalError, "boom: %d", 7)
	assert.False(t, bad.OK())
	assert.Equal(t, "boom: 7", bad.Message)
}
