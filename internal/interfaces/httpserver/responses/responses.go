// Package responses contains shared HTTP response helpers for the pairing-api.
// Session-specific response types are in the session subpackage.
package responses

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ListResponse wraps a collection in the list envelope.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

// NewListResponse returns a list envelope; a nil slice is rendered as [].
func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Object: "list", Data: data}
}
