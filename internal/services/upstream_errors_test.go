package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "merlin/internal/errors"
	"merlin/internal/testutil"
	"merlin/internal/upstream"
)

func TestMapUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unauthorized", &upstream.StatusError{StatusCode: http.StatusUnauthorized}, "SESSION_EXPIRED"},
		{"not found", fmt.Errorf("fetching: %w", &upstream.StatusError{StatusCode: http.StatusNotFound}), "ASSESSMENT_NOT_FOUND"},
		{"validation", &upstream.StatusError{StatusCode: http.StatusUnprocessableEntity, Message: "The name field is required."}, "UPSTREAM_REJECTED"},
		{"server error", &upstream.StatusError{StatusCode: http.StatusInternalServerError}, "UPSTREAM_UNAVAILABLE"},
		{"invalid payload", fmt.Errorf("entry 0: %w", upstream.ErrInvalidResponse), "INVALID_UPSTREAM_RESPONSE"},
		{"timeout", context.DeadlineExceeded, "UPSTREAM_UNAVAILABLE"},
		{"transport", errors.New("connection refused"), "UPSTREAM_UNAVAILABLE"},
		{"app error passes through", apperrors.ErrInvalidInput, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertAppError(t, mapUpstreamError(tt.err, apperrors.ErrAssessmentNotFound), tt.code)
		})
	}
}

func TestMapUpstreamError_KeepsBackendMessage(t *testing.T) {
	err := mapUpstreamError(&upstream.StatusError{StatusCode: http.StatusUnprocessableEntity, Message: "The name field is required."}, apperrors.ErrNotFound)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Message != "The name field is required." {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	if apperrors.ErrUpstreamRejected.Message == appErr.Message {
		t.Error("sentinel message was overwritten")
	}
}

func TestMapUpstreamError_Nil(t *testing.T) {
	if err := mapUpstreamError(nil, apperrors.ErrNotFound); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
