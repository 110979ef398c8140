package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/erazemk/cartconsole/internal/model"
)

// APIError is a non-2xx answer from the shopcart API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopcart api returned %d: %s", e.Status, e.Message)
}

// newAPIError reads the message from the error payload, falling back to the
// status text when the payload is missing or malformed.
func newAPIError(status int, body []byte) *APIError {
	var payload model.ErrorPayload
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Text()
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// AsAPIError reports whether err wraps an *APIError and returns it.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
