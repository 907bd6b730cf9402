package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validationf("name is required"), http.StatusBadRequest},
		{"forbidden", Forbiddenf("owner only"), http.StatusForbidden},
		{"not found", NotFoundf("organization not found"), http.StatusNotFound},
		{"conflict", Conflictf("slug taken"), http.StatusConflict},
		{"quota", QuotaExceededf("limit of %d reached", 5), http.StatusConflict},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("invite: %w", QuotaExceededf("full")), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// Conflict and QuotaExceeded share a status code but must stay separate
// kinds so callers can branch on them.
func TestQuotaIsNotConflict(t *testing.T) {
	err := QuotaExceededf("limit reached")
	if errors.Is(err, ErrConflict) {
		t.Error("quota error matched ErrConflict")
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Error("quota error lost its kind")
	}
}

func TestConstructorsKeepMessage(t *testing.T) {
	err := Validationf("field %q is bad", "slug")
	if got := err.Error(); got != `field "slug" is bad: validation failed` {
		t.Errorf("message = %q", got)
	}
}
