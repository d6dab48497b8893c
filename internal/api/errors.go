// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/validation"
)

// ErrorResponse is the body of every non-2xx response. Details is a list of
// field errors for 400 and a diagnostic string for 500.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// apiHandler is a handler that reports failure by returning an error.
// Wrap it with handle to get an http.HandlerFunc.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

// handle adapts h, sending any returned error through respondErr.
func handle(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			respondErr(w, r, err)
		}
	}
}

// respondErr maps an error kind to its status and body:
//
//	not_found  -> 404 {error}
//	validation -> 400 {error, details}
//	storage    -> 500 {error, details}, logged once here
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logging.RequestIDFromContext(r.Context())

	switch database.KindOf(err) {
	case database.KindNotFound:
		respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error:     notFoundMessage(err),
			RequestID: requestID,
		})

	case database.KindValidation:
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request",
			Details:   validationDetails(err),
			RequestID: requestID,
		})

	default:
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:     "internal server error",
			Details:   err.Error(),
			RequestID: requestID,
		})
	}
}

// notFoundMessage returns the wrapped message, e.g. "user not found: u42".
func notFoundMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return database.ErrNotFound.Error()
}

// validationDetails returns field errors when the request validator
// produced them, otherwise a single entry carrying the message.
func validationDetails(err error) []validation.FieldError {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		return ve.Errors()
	}
	return []validation.FieldError{{
		Field:   "request",
		Tag:     "invalid",
		Message: database.ValidationMessage(err),
	}}
}
