package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/api/apierr"
)

// MaxBodyBytes caps every JSON request body
const MaxBodyBytes = 64 << 10

// validator is implemented by bodies that check their own required fields
type validator interface {
	Validate() error
}

// Decode reads a JSON body into T. An empty body decodes to the zero
// value; anything unreadable is an INVALID_REQUEST error.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var body T
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return body, apierr.NewInvalidRequestError("request body too large")
		}
		return body, apierr.NewInvalidRequestError("invalid request body")
	}
	if v, ok := any(&body).(validator); ok {
		if err := v.Validate(); err != nil {
			return body, err
		}
	}
	return body, nil
}

func required(field, value string) error {
	if value == "" {
		return apierr.NewInvalidRequestError(field + " is required")
	}
	return nil
}
