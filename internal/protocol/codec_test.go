package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidRequest(t *testing.T) {
	raw := []byte(`{"type":"mcp_request","request_id":"req-1","data":{"action":"get_brands"}}`)

	env, derr := Decode(raw)
	require.Nil(t, derr)
	assert.Equal(t, TypeRequest, env.Type)
	assert.Equal(t, "req-1", env.RequestID)
	assert.Equal(t, "get_brands", env.Action())
}

func TestDecode_NoRequestID(t *testing.T) {
	raw := []byte(`{"type":"mcp_request","data":{"action":"get_colors"}}`)

	env, derr := Decode(raw)
	require.Nil(t, derr)
	assert.Empty(t, env.RequestID)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, derr := Decode([]byte(`{"type":"mcp_request",`))
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidJSON, derr.Code)
}

func TestDecode_MissingType(t *testing.T) {
	_, derr := Decode([]byte(`{"data":{"action":"get_brands"}}`))
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidJSON, derr.Code)
}

func TestDecode_MissingData(t *testing.T) {
	_, derr := Decode([]byte(`{"type":"mcp_request","request_id":"req-2"}`))
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidJSON, derr.Code)
	// The id must be salvaged so the error frame can still correlate.
	assert.Equal(t, "req-2", derr.RequestID)
}

func TestDecode_WrongType(t *testing.T) {
	_, derr := Decode([]byte(`{"type":"mcp_response","data":{}}`))
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidJSON, derr.Code)
}

func TestDecode_NonStringRequestID(t *testing.T) {
	_, derr := Decode([]byte(`{"type":"mcp_request","request_id":42,"data":{}}`))
	require.NotNil(t, derr)
	assert.Equal(t, CodeInvalidJSON, derr.Code)
}

func TestEncodeResponse_EchoesRequestID(t *testing.T) {
	raw, err := EncodeResponse("req-9", map[string]any{"total": 3})
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, TypeResponse, frame["type"])
	assert.Equal(t, "req-9", frame["request_id"])
	assert.Equal(t, true, frame["success"])

	ts, ok := frame["timestamp"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestEncodeResponse_OmitsAbsentRequestID(t *testing.T) {
	raw, err := EncodeResponse("", map[string]any{})
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	_, present := frame["request_id"]
	assert.False(t, present)
}

func TestEncodeError_Frame(t *testing.T) {
	raw, err := EncodeError("req-3", CodeCarNotFound, `car "x" not found`)
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, TypeError, frame["type"])
	assert.Equal(t, "req-3", frame["request_id"])
	assert.Equal(t, CodeCarNotFound, frame["error_code"])
	assert.Equal(t, `car "x" not found`, frame["error"])
	assert.NotEmpty(t, frame["timestamp"])
}

func TestEncodeWelcome_Frame(t *testing.T) {
	raw, err := EncodeWelcome(Welcome{
		Message:          "connected",
		Protocol:         "MCP-V1",
		AvailableActions: []string{"get_brands", "search_cars"},
		User:             "anonymous_abc",
	})
	require.NoError(t, err)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, TypeWelcome, frame["type"])
	assert.Equal(t, "MCP-V1", frame["protocol"])
	assert.Equal(t, "anonymous_abc", frame["user"])
	assert.NotEmpty(t, frame["timestamp"])
}
