package bench

import (
	"context"
	"errors"
	"testing"
)

func TestOpen(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	tests := []struct {
		ref      string
		wantName string
		wantErr  error
	}{
		{ref: "ollama:deepseek-ocr", wantName: "ollama:deepseek-ocr"},
		{ref: "openai:gpt-4o-mini", wantName: "openai:gpt-4o-mini"},
		{ref: "bogus:model", wantErr: ErrUnknownBackend},
		{ref: "ollama", wantErr: ErrUnknownBackend},
		{ref: "ollama:", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			b, err := Open(context.Background(), tt.ref, OpenConfig{OllamaHost: "http://127.0.0.1:1"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Open(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) failed: %v", tt.ref, err)
			}
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}

func TestOpen_FailureReturnsNilInterface(t *testing.T) {
	b, err := Open(context.Background(), "onnx:../../testdata/nonexistent.onnx", OpenConfig{})
	if err == nil {
		t.Fatal("expected error for missing model")
	}
	if b != nil {
		t.Errorf("Open returned non-nil backend %#v with error", b)
	}
}

func TestOpenAll(t *testing.T) {
	backends, err := OpenAll(context.Background(), "ollama:a, ollama:b,", OpenConfig{})
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	if len(backends) != 2 {
		t.Fatalf("got %d backends, want 2", len(backends))
	}
	if err := CloseAll(backends); err != nil {
		t.Errorf("CloseAll failed: %v", err)
	}

	if _, err := OpenAll(context.Background(), " , ", OpenConfig{}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("empty list error = %v, want ErrUnknownBackend", err)
	}
}
