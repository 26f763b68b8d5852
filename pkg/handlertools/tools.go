// Package handlertools has the request and response helpers shared by the mock registry
// and the dev server handlers.
package handlertools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/models"
)

var log = internal.ComponentLogger("handlertools")

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// ReadBody reads the whole request body. A nil body reads as empty.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return b, nil
}

// StatusFor maps an error to the HTTP status it is rendered with. fallback is used for
// errors without a specific mapping.
func StatusFor(err error, fallback int) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoMatchingMock):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoUpstream):
		return http.StatusBadGateway
	}
	return fallback
}

// RenderError renders an error response.
func RenderError(w http.ResponseWriter, err error, status int) {
	status = StatusFor(err, status)

	if status != http.StatusNotFound {
		// Unmatched requests are journaled by the registry, no need to log them as errors
		log.Error(err)
	}

	http.Error(w, err.Error(), status)
}
