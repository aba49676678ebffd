package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestOutOfRange(t *testing.T) {
	err := OutOfRange(150, 100)

	if err.Code != CodeOutOfRange {
		t.Errorf("expected code %s, got %s", CodeOutOfRange, err.Code)
	}
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, err.HTTPStatus)
	}
	if err.Details["distance_m"] != float64(150) {
		t.Errorf("expected distance_m 150, got %v", err.Details["distance_m"])
	}
	if err.Details["required_radius_m"] != float64(100) {
		t.Errorf("expected required_radius_m 100, got %v", err.Details["required_radius_m"])
	}
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("completed", "cancel")

	if err.Code != CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.Details["current_status"] != "completed" {
		t.Errorf("expected current_status 'completed', got %v", err.Details["current_status"])
	}
	if err.Details["event"] != "cancel" {
		t.Errorf("expected event 'cancel', got %v", err.Details["event"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError should return the same AppError instance")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, converted.Code)
	}
	if errors.Unwrap(converted) != plain {
		t.Errorf("converted error should wrap the original")
	}
}
