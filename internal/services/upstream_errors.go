package services

import (
	"errors"
	"net/http"

	apperrors "merlin/internal/errors"
	"merlin/internal/upstream"
)

// mapUpstreamError converts a backend client error into an AppError.
// notFound is used for 404 responses.
func mapUpstreamError(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(apperrors.ErrSessionExpired, err)
		case http.StatusNotFound:
			return apperrors.Wrap(notFound, err)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			rejected := apperrors.Wrap(apperrors.ErrUpstreamRejected, err)
			if statusErr.Message != "" {
				rejected.Message = statusErr.Message
			}
			return rejected
		default:
			return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
		}
	}

	if errors.Is(err, upstream.ErrInvalidResponse) {
		return apperrors.Wrap(apperrors.ErrInvalidUpstreamResponse, err)
	}
	// Anything else failed before a response arrived.
	return apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
}

// isUnauthorized reports whether the backend rejected the token itself.
func isUnauthorized(err error) bool {
	var statusErr *upstream.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}
