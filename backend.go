package jersey

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Backend is a recognition service that reads jersey information from an
// image. Implementations live under backend/.
type Backend interface {
	// Name identifies the backend in tables and reports.
	Name() string

	// Extract runs one inference call. Failures of the call itself are
	// returned as *BackendError.
	Extract(ctx context.Context, req Request) (Output, error)
}

// Request is the input to one Backend.Extract call. Zero values select
// the backend's defaults.
type Request struct {
	Image     []byte // encoded image bytes
	ImagePath string // source path, for logging
	MIMEType  string // e.g. "image/jpeg"

	Prompt       string
	SystemPrompt string
	Format       json.RawMessage // JSON schema constraining the response

	MaxTokens   int
	Temperature float64
	KeepAlive   time.Duration
	Timeout     time.Duration
}

// Output is what a backend returns: either an already structured Record
// or free Text that still needs object extraction.
type Output struct {
	Record *Prediction
	Text   string
}

// Defaults shared by the chat-style backends.
const (
	DefaultSystemPrompt = "You are a strict OCR engine. Extract JERSEY NUMBER, JERSEY COLOR, and LAST NAME. " +
		"Each list for the key fields must have the same length. Return JSON only."

	DefaultPrompt = "Extract the jersey NUMBER, jersey COLOR and LAST NAME of every player visible in the image. " +
		"Return JSON with keys: number, last_name, color, confidence. " +
		"Use uppercase for last_name. If unsure, set the field to null and lower confidence."

	// SingleSubjectSystemPrompt and SingleSubjectPrompt pair with
	// SingleSubjectFormat for crops showing one player.
	SingleSubjectSystemPrompt = "You are a strict OCR engine. Extract jersey NUMBER and LAST NAME. Return JSON only."

	SingleSubjectPrompt = "Extract the player's jersey NUMBER and LAST NAME from the image. " +
		"Return JSON with keys: number, last_name, confidence. " +
		"Use uppercase for last_name."

	DefaultMaxTokens = 200
	DefaultKeepAlive = 10 * time.Minute
	DefaultTimeout   = 120 * time.Second
)

// DefaultFormat is the multi-player schema: every field is a list with
// nullable items.
var DefaultFormat = mustSchema(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"number":     listOf("integer"),
		"last_name":  listOf("string"),
		"color":      listOf("string"),
		"confidence": listOf("number"),
	},
	"required": []any{"number", "last_name", "color", "confidence"},
})

// SingleSubjectFormat is the scalar schema for backends that read one player.
var SingleSubjectFormat = mustSchema(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"number":     map[string]any{"type": []any{"integer", "null"}},
		"last_name":  map[string]any{"type": []any{"string", "null"}},
		"confidence": map[string]any{"type": "number"},
	},
	"required": []any{"number", "last_name", "confidence"},
})

func listOf(item string) map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": []any{item, "null"}},
	}
}

func mustSchema(m map[string]any) json.RawMessage {
	s, err := structpb.NewStruct(m)
	if err != nil {
		panic(err)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(b)
}
