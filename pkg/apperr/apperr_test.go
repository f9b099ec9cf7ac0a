package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapsWrappedErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("amount must be positive: %w", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("bill not found: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("already cleared: %w", ErrDuplicateState), http.StatusConflict},
		{fmt.Errorf("admin only: %w", ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("ocr service down: %w", ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), "error: %v", tt.err)
	}
}

func TestStatusDoubleWrapped(t *testing.T) {
	inner := fmt.Errorf("vendor not found: %w", ErrNotFound)
	outer := fmt.Errorf("failed to create bill: %w", inner)

	assert.Equal(t, http.StatusNotFound, Status(outer))
}
