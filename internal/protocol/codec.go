// Package protocol implements the MCP message envelope: decoding and
// validation of inbound frames, and construction of response, error, and
// welcome frames.
//
// The codec is a pure transformation layer. It enforces the structural shape
// of the envelope and request-id correlation, and never inspects business
// payload beyond that.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope types on the wire.
const (
	TypeRequest  = "mcp_request"
	TypeResponse = "mcp_response"
	TypeError    = "mcp_error"
	TypeWelcome  = "mcp_welcome"
)

// Error codes surfaced to clients.
const (
	CodeInvalidJSON       = "INVALID_JSON"
	CodeUnsupportedAction = "UNSUPPORTED_ACTION"
	CodeMissingCarID      = "MISSING_CAR_ID"
	CodeCarNotFound       = "CAR_NOT_FOUND"
	CodeSearchError       = "SEARCH_ERROR"
	CodeBrandsError       = "BRANDS_ERROR"
	CodeColorsError       = "COLORS_ERROR"
	CodeEnginesError      = "ENGINES_ERROR"
	CodeCarDetailsError   = "CAR_DETAILS_ERROR"
	CodeFiltersOptionsErr = "FILTERS_OPTIONS_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Envelope is a decoded inbound request frame.
type Envelope struct {
	Type      string         `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	Data      map[string]any `json:"data"`
}

// Action returns the action name carried in the payload, or "" when absent.
func (e *Envelope) Action() string {
	if a, ok := e.Data["action"].(string); ok {
		return a
	}
	return ""
}

// DecodeError reports why an inbound frame was rejected. RequestID carries
// any id salvaged from the broken frame so the reply can still correlate.
type DecodeError struct {
	Code      string
	Message   string
	RequestID string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Decode parses and validates a raw text frame into an Envelope. Malformed
// JSON, a missing type, a non-request type, or a missing data object all
// yield a DecodeError with CodeInvalidJSON.
func Decode(raw []byte) (*Envelope, *DecodeError) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &DecodeError{
			Code:    CodeInvalidJSON,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	if err := validateEnvelope(value); err != nil {
		derr := &DecodeError{
			Code:    CodeInvalidJSON,
			Message: fmt.Sprintf("invalid envelope: %v", err),
		}
		// Salvage the request id so the error can correlate.
		if obj, ok := value.(map[string]any); ok {
			if id, ok := obj["request_id"].(string); ok {
				derr.RequestID = id
			}
		}
		return nil, derr
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{
			Code:    CodeInvalidJSON,
			Message: fmt.Sprintf("invalid envelope: %v", err),
		}
	}
	return &env, nil
}

type responseFrame struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type errorFrame struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Timestamp string `json:"timestamp"`
}

// Welcome is the frame sent once when a connection enters the open state.
type Welcome struct {
	Message          string         `json:"message"`
	Protocol         string         `json:"protocol"`
	AvailableActions []string       `json:"available_actions"`
	Schemas          map[string]any `json:"schemas,omitempty"`
	User             string         `json:"user"`
}

type welcomeFrame struct {
	Type string `json:"type"`
	Welcome
	Timestamp string `json:"timestamp"`
}

// EncodeResponse builds a success frame. The request id is echoed verbatim
// and omitted entirely when the originating request carried none.
func EncodeResponse(requestID string, data any) ([]byte, error) {
	return json.Marshal(responseFrame{
		Type:      TypeResponse,
		RequestID: requestID,
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// EncodeError builds an error frame with the given code and human message.
func EncodeError(requestID, code, message string) ([]byte, error) {
	return json.Marshal(errorFrame{
		Type:      TypeError,
		RequestID: requestID,
		Error:     message,
		ErrorCode: code,
		Timestamp: timestamp(),
	})
}

// EncodeWelcome builds the welcome frame.
func EncodeWelcome(w Welcome) ([]byte, error) {
	return json.Marshal(welcomeFrame{
		Type:      TypeWelcome,
		Welcome:   w,
		Timestamp: timestamp(),
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
