// Package handler exposes the HTTP surface: request decoding, status
// mapping and route registration over the service layer.
package handler

import (
	"errors"
	"net/http"

	"parakeet/internal/domain"
	"parakeet/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidContext):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// markupContext extracts the optional linked_type/linked_id pair selecting a
// markup context. Pairing rules are enforced by the markup store; here only
// the integer parse can fail.
func markupContext(r *http.Request) (*string, *int, error) {
	linkedType := httputil.QueryString(r, "linked_type")
	linkedID, err := httputil.QueryInt(r, "linked_id")
	if err != nil {
		return nil, nil, err
	}
	return linkedType, linkedID, nil
}

type okResponse struct {
	OK bool `json:"ok"`
}
