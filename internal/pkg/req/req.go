/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing JSON request bodies and integrates error
handling to ensure data format correctness and size constraints, facilitating
subsequent business logic processing.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dmchat/internal/pkg/errs"
)

// MaxBodyBytes defines the maximum allowed size (15 MB) for a JSON request body.
// Message bodies may carry base64-encoded images, hence the generous limit.
// It is enforced via http.MaxBytesReader.
const MaxBodyBytes int64 = 15 << 20

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
