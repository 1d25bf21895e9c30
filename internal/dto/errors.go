package dto

// BaseError — единый формат ошибок API.
type BaseError struct {
	Code    string            `json:"code" example:"VALIDATION_ERROR"`
	Message string            `json:"message" example:"invalid request body"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewError(code, message string) BaseError {
	return BaseError{Code: code, Message: message}
}

func NewValidationError(message string, fields map[string]string) BaseError {
	return BaseError{Code: "VALIDATION_ERROR", Message: message, Fields: fields}
}

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimited   = "RATE_LIMITED"
	CodePaymentError  = "PAYMENT_PROCESSOR_ERROR"
	CodeBadSignature  = "INVALID_SIGNATURE"
	CodeInternalError = "INTERNAL_ERROR"
)
