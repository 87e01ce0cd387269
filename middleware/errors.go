// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/livepoll/models"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, models.ErrInvalidQuestion),
		errors.Is(err, models.ErrInvalidAnswer),
		errors.Is(err, models.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNoActivePoll):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrPollNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body. Server errors are logged and
// their details kept out of the response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		event := log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path)
		var se *models.StorageError
		if errors.As(err, &se) {
			event = event.Str("op", se.Op).Str("owner", se.Owner).Str("poll_id", se.PollID)
		}
		event.Msg("Request failed")
		ErrorResponse(w, status, "internal error")
		return
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		ErrorResponse(w, status, ve.Error())
		return
	}
	ErrorResponse(w, status, publicMessage(err))
}

// publicMessage picks the sentinel text rather than the wrapped chain, which
// may carry paths or ids.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		models.ErrNoActivePoll,
		models.ErrPollNotActive,
		models.ErrInvalidQuestion,
		models.ErrInvalidAnswer,
		models.ErrInvalidPath,
		models.ErrUnauthorized,
		models.ErrNotFound,
		models.ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
