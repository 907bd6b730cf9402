package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"drawbase/internal/errs"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestSendSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	SendSuccess(rec, http.StatusCreated, "created", map[string]string{"id": "42"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}
	env := decode(t, rec)
	if env.Status != "success" || env.Message != "created" || env.Data == nil {
		t.Errorf("envelope = %+v", env)
	}
}

func TestSendServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{"validation surfaces message", errs.Validationf("slug is required"), http.StatusBadRequest, "slug is required: validation failed"},
		{"quota maps to 409", errs.QuotaExceededf("member limit of 5 reached"), http.StatusConflict, "member limit of 5 reached: quota exceeded"},
		{"internal errors are opaque", errors.New("pq: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SendServiceError(rec, tt.err)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			env := decode(t, rec)
			if env.Status != "error" {
				t.Errorf("status field = %s", env.Status)
			}
			if env.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMessage)
			}
		})
	}
}
