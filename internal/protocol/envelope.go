package protocol

import "encoding/json"

// Error statuses carried in the error envelope. "validation" denotes a
// malformed request; "error" denotes a business-rule rejection.
const (
	StatusError      = "error"
	StatusValidation = "validation"
)

// ClientMessage is the inbound frame format: an event name plus an opaque
// payload decoded by the matching handler.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// SuccessEnvelope is the outbound frame for successful operations and
// broadcasts
type SuccessEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ErrorEnvelope is the outbound frame reporting a failed request to its
// originating connection
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
}

// Success builds a success envelope for the given event
func Success(event string, data any) SuccessEnvelope {
	return SuccessEnvelope{Event: event, Data: data}
}

// BusinessError builds an "error" status envelope
func BusinessError(event, message string) ErrorEnvelope {
	return ErrorEnvelope{Status: StatusError, Event: event, Message: message}
}

// ValidationError builds a "validation" status envelope
func ValidationError(event, message string) ErrorEnvelope {
	return ErrorEnvelope{Status: StatusValidation, Event: event, Message: message}
}
