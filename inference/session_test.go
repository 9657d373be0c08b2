package inference

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

const testModelPath = "../testdata/jersey_classifier.onnx"

// testShape is the classifier's expected input for a batch of one.
var testShape = []int64{1, 3, 224, 224}

func testPixels() []float32 {
	return make([]float32, 3*224*224)
}

// openSession skips the test when the model or the runtime is missing.
func openSession(t *testing.T) *Session {
	t.Helper()

	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: model not available at %s", testModelPath)
	}

	session, err := NewSession(testModelPath, DefaultIONames)
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func TestNewSession_FileNotFound(t *testing.T) {
	_, err := NewSession("../testdata/nonexistent.onnx", DefaultIONames)
	if err == nil {
		t.Error("expected error for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

func TestSession_Infer(t *testing.T) {
	session := openSession(t)
	defer func() { _ = session.Close() }()

	logits, err := session.Infer(context.Background(), testPixels(), testShape)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	// One logit per jersey number 0..99
	if len(logits) != 100 {
		t.Errorf("expected 100 logits, got %d", len(logits))
	}
}

func TestSession_Infer_ContextCancellation(t *testing.T) {
	session := openSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Infer(ctx, testPixels(), testShape)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got: %v", err)
	}
}

func TestSession_Infer_ContextTimeout(t *testing.T) {
	session := openSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := session.Infer(ctx, testPixels(), testShape)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded error, got: %v", err)
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	session := openSession(t)

	if err := session.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSession_Infer_AfterClose(t *testing.T) {
	session := openSession(t)

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := session.Infer(context.Background(), testPixels(), testShape)
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got: %v", err)
	}
}

// isORTUnavailableError checks if the error indicates ONNX runtime is not available.
func isORTUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "onnxruntime") ||
		strings.Contains(errStr, "shared library") ||
		strings.Contains(errStr, "dylib") ||
		strings.Contains(errStr, ".so") ||
		strings.Contains(errStr, ".dll") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "cannot open") ||
		strings.Contains(errStr, "initializing ONNX runtime")
}
