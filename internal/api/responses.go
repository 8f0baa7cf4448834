package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/summarease/summarease/internal/apperr"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error   string     `json:"error"`
	Details string     `json:"details,omitempty"`
	Code    apperr.Code `json:"code"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, code apperr.Code, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// WriteAppError maps a classified error to a response. Validation failures
// are 400 and carry their own message; everything else is 500 under the
// route's headline with the cause in details.
func WriteAppError(w http.ResponseWriter, err error, headline string) {
	code := apperr.CodeOf(err)
	if code == apperr.Validation {
		resp := ErrorResponse{Error: headline, Code: code}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			resp.Error = ae.Message
			if ae.Err != nil {
				resp.Details = ae.Err.Error()
			}
		}
		WriteJSON(w, http.StatusBadRequest, resp)
		return
	}

	details := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) {
		details = ae.Details()
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   headline,
		Details: details,
		Code:    code,
	})
}

// DecodeJSON decodes the request body into v. An empty body leaves v
// untouched; any other failure, including an oversized body, is a
// validation error.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(apperr.Validation, "request body too large")
		}
		return apperr.Wrap(apperr.Validation, err, "invalid JSON body")
	}
	return nil
}
