package dto

// Error kinds reported in ErrorResponse.Code.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeCapacityViolation = "CAPACITY_VIOLATION"
	CodeInternal          = "INTERNAL"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse confirms operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}
