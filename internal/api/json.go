package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error  string `json:"error" validate:"required"`
	Fields any    `json:"fields,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// decodeJSON reads a size-limited JSON body into dst. On failure it returns
// the status to answer with: 413 for an oversized body, 422 otherwise. Type
// mismatches are reported per field so they render like validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (int, *errResponse) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		// The body must hold exactly one JSON value.
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return 0, nil
		}
		if err == nil {
			err = errTrailingData
		}
	}
	var sizeErr *http.MaxBytesError
	if errors.As(err, &sizeErr) {
		return http.StatusRequestEntityTooLarge, &errResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", sizeErr.Limit),
		}
	}
	return http.StatusUnprocessableEntity, decodeError(err)
}

var errTrailingData = errors.New("trailing data after JSON value")

func decodeError(err error) *errResponse {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &errResponse{
			Error:  "validation failed",
			Fields: map[string]string{typeErr.Field: fmt.Sprintf("must be %s", typeErr.Type)},
		}
	case errors.Is(err, io.EOF):
		return &errResponse{Error: "request body is required"}
	default:
		return &errResponse{Error: "invalid JSON body"}
	}
}
