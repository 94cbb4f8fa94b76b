package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"invalid input", fmt.Errorf("%w: status is required", ErrInvalidInput), KindInvalidInput, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, KindUnauthorized, http.StatusForbidden},
		{"policy inactive", fmt.Errorf("%w: photo", ErrPolicyInactive), KindPolicyInactive, http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("report 9: %w", ErrNotFound), KindNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: version moved", ErrConflictRetryable), KindConflictRetryable, http.StatusConflict},
		{"storage", fmt.Errorf("%w: %w", ErrStorageFailure, context.Canceled), KindStorageFailure, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), KindStorageFailure, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, ErrorKind(tc.err))
			assert.Equal(t, tc.status, HTTPStatus(tc.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("wrap: %w", ErrConflictRetryable)))
	assert.False(t, IsRetryable(ErrStorageFailure))
	assert.False(t, IsRetryable(nil))
}
