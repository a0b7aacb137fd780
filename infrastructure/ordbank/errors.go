package ordbank

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the service, with the message the
// service returned where one could be extracted.
type APIError struct {
	StatusCode int
	Message    string
}

// newAPIError builds an APIError from a response body. The service
// reports failures as {"error": "..."}; anything else is kept as raw
// text so the operator still sees what came back.
func newAPIError(statusCode int, body []byte) *APIError {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return &APIError{StatusCode: statusCode, Message: parsed.Error}
	}
	return &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ordbank: status %d", e.StatusCode)
	}
	return fmt.Sprintf("ordbank: status %d: %s", e.StatusCode, e.Message)
}
