package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "queendoctor/pkg/errors"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), appErr.Response())
}

func WriteOK(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteText(w http.ResponseWriter, statusCode int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := io.WriteString(w, text)
	return err
}

// DecodeObject decodes a JSON object body. Anything other than a single
// JSON object (arrays, scalars, null, empty body) is a bad request. The
// size cap comes from the MaxRequestSize middleware.
func DecodeObject(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return nil, apperrors.BadRequest("Request body is required")
	}

	var obj map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.PayloadTooLarge(tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, apperrors.BadRequest("Request body is required")
		}
		return nil, apperrors.BadRequest("Invalid request body")
	}
	if obj == nil {
		return nil, apperrors.BadRequest("Request body must be a JSON object")
	}
	return obj, nil
}
