package model

// ErrorPayload is the body the shopcart API sends with a failed request.
// Some deployments use "error" instead of "message".
type ErrorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Text returns the most specific message in the payload.
func (p ErrorPayload) Text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}
