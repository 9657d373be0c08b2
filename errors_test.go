package jersey

import (
	"errors"
	"testing"
)

func TestBackendError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *BackendError
		want string
	}{
		{
			name: "status and body",
			err:  &BackendError{Backend: "ollama:m", StatusCode: 500, Status: "500 Internal Server Error", Body: "boom"},
			want: "ollama:m error 500: boom",
		},
		{
			name: "empty body falls back to status",
			err:  &BackendError{Backend: "ollama:m", StatusCode: 503, Status: "503 Service Unavailable"},
			want: "ollama:m error: 503 Service Unavailable",
		},
		{
			name: "code only",
			err:  &BackendError{Backend: "ollama:m", StatusCode: 502},
			want: "ollama:m error 502",
		},
		{
			name: "transport failure",
			err:  &BackendError{Backend: "ollama:m", Err: cause},
			want: "ollama:m error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractionError_Is(t *testing.T) {
	_, err := ExtractJSONObject("no braces here")
	if !errors.Is(err, ErrExtraction) || !errors.Is(err, ErrNoObject) {
		t.Errorf("error = %v, want ErrExtraction and ErrNoObject", err)
	}
	if errors.Is(err, ErrUnbalancedBraces) {
		t.Error("unexpected ErrUnbalancedBraces match")
	}
}
