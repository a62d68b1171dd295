package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionSchemas_CoversPayloadActions(t *testing.T) {
	schemas := ActionSchemas()

	require.Contains(t, schemas, "search_cars")
	require.Contains(t, schemas, "get_car_details")

	search, ok := schemas["search_cars"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", search["type"])

	details, ok := schemas["get_car_details"].(map[string]any)
	require.True(t, ok)
	props, ok := details["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "car_id")
}
