package commands

import (
	"strings"
	"testing"

	apierrors "github.com/rmarques/wildchat/internal/errors"
)

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantParts []string
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name:      "auth error suggests login",
			err:       apierrors.NewAuthError("bad token"),
			wantParts: []string{"Request failed", "bad token", "auth login"},
		},
		{
			name:      "rate limit mentions usage limit",
			err:       apierrors.NewRateLimitError("slow down"),
			wantParts: []string{"usage limit"},
		},
		{
			name:      "network error points at the connection",
			err:       apierrors.NewNetworkError("connection refused", nil),
			wantParts: []string{"internet connection"},
		},
		{
			name:      "timeout says timed out",
			err:       apierrors.NewTimeoutError("too slow"),
			wantParts: []string{"timed out"},
		},
		{
			name:      "missing token points at HF_TOKEN",
			err:       apierrors.ErrNoToken,
			wantParts: []string{"HF_TOKEN", "auth login"},
		},
		{
			name:      "api error carries status and endpoint",
			err:       apierrors.NewAPIError(500, "https://router.test/v1/chat/completions", "boom"),
			wantParts: []string{"HTTP Status: 500", "Endpoint: https://router.test/v1/chat/completions", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatErrorMessage(tt.err, "Request failed")

			if tt.err == nil {
				if got != "" {
					t.Errorf("formatErrorMessage(nil) = %q, want empty", got)
				}
				return
			}

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("message missing %q:\n%s", part, got)
				}
			}
		})
	}
}
