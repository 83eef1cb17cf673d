package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotHouseOwner      = "NOT_HOUSE_OWNER"
	CodeNotFound           = "NOT_FOUND"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeHouseNotFound      = "HOUSE_NOT_FOUND"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeFurnitureNotFound  = "FURNITURE_NOT_FOUND"
	CodeKingdomNotFound    = "KINGDOM_NOT_FOUND"
	CodeLocationNotFound   = "LOCATION_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Specific not found errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrHouseNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeHouseNotFound, "House not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrFurnitureNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFurnitureNotFound, "Furniture not found"}}
	case errors.Is(err, model.ErrKingdomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeKingdomNotFound, "Kingdom not found"}}
	case errors.Is(err, model.ErrBaronyNotFound), errors.Is(err, model.ErrVillageNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLocationNotFound, "Location not found"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}

	// Ownership is a validation error in the model but a permission error here
	case errors.Is(err, model.ErrNotHouseOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotHouseOwner, "You do not own this house"}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, validationMessage(err)}}

	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeConflict, "Record was modified concurrently, try again"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// validationMessage strips the category prefix from a validation error
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
	if msg == "" {
		return "Validation failed"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
