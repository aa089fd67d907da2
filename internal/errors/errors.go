// Package errors provides custom error types for the stockhub API.
// All service-layer errors should use AppError so responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. Invalid credentials deliberately carries one
// uniform message whether the email is unknown or the password is wrong.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User and role errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrRoleNotFound      = &AppError{Code: "ROLE_NOT_FOUND", Message: "Role not found", StatusCode: http.StatusNotFound}
)

// Market-data errors.
var (
	ErrStockNotFound         = &AppError{Code: "STOCK_NOT_FOUND", Message: "Stock not found", StatusCode: http.StatusNotFound}
	ErrAssetNotFound         = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrSummaryNotFound       = &AppError{Code: "SUMMARY_NOT_FOUND", Message: "Daily summary not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAsset        = &AppError{Code: "DUPLICATE_ASSET", Message: "An asset with this name or ticker already exists", StatusCode: http.StatusConflict}
	ErrUnknownClassification = &AppError{Code: "UNKNOWN_CLASSIFICATION", Message: "Unknown country, exchange, or asset class", StatusCode: http.StatusUnprocessableEntity}
)

// Ingestion errors. Surfaced as upstream failures to the caller and
// logged with symbol context at the service layer.
var (
	ErrUpstreamUnavailable = &AppError{Code: "UPSTREAM_UNAVAILABLE", Message: "Market data provider is unavailable", StatusCode: http.StatusBadGateway}
	ErrUpstreamTimeout     = &AppError{Code: "UPSTREAM_TIMEOUT", Message: "Market data provider timed out", StatusCode: http.StatusGatewayTimeout}
	ErrNoDataForSymbol     = &AppError{Code: "NO_DATA_FOR_SYMBOL", Message: "Market data provider returned no data for this symbol", StatusCode: http.StatusBadGateway}
	ErrDataParse           = &AppError{Code: "DATA_PARSE_ERROR", Message: "Market data provider returned malformed data", StatusCode: http.StatusBadGateway}
)
