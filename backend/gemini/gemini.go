// Package gemini implements jersey.Backend with the Google Gen AI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	jersey "github.com/jamesainslie/go-jersey"
)

// APIKeyEnv is read when no key is configured.
const APIKeyEnv = "GEMINI_API_KEY"

// ErrEmptyResponse indicates a response without candidate text.
var ErrEmptyResponse = errors.New("gemini: response has no text")

// Models is the subset of *genai.Models the backend uses.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Backend calls GenerateContent once per image.
type Backend struct {
	model  string
	models Models
	logger *slog.Logger
}

// New creates a Backend for model using the Gemini API.
func New(ctx context.Context, model string, opts ...Option) (*Backend, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.models == nil {
		cc := &genai.ClientConfig{
			APIKey:     cfg.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: cfg.httpClient,
		}
		if cc.APIKey == "" {
			cc.APIKey = os.Getenv(APIKeyEnv)
		}
		if cfg.baseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		cfg.models = client.Models
	}

	return &Backend{
		model:  model,
		models: cfg.models,
		logger: cfg.logger,
	}, nil
}

// Name returns "gemini:<model>".
func (b *Backend) Name() string { return "gemini:" + b.model }

// Extract returns the concatenated candidate text.
func (b *Backend) Extract(ctx context.Context, req jersey.Request) (jersey.Output, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	contents, gc, err := b.buildRequest(req)
	if err != nil {
		return jersey.Output{}, err
	}
	b.logger.Debug("gemini generate", "model", b.model, "image", req.ImagePath)

	resp, err := b.models.GenerateContent(ctx, b.model, contents, gc)
	if err != nil {
		return jersey.Output{}, b.backendError(err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return jersey.Output{}, &jersey.BackendError{Backend: b.Name(), Err: ErrEmptyResponse}
	}
	return jersey.Output{Text: text}, nil
}

func (b *Backend) buildRequest(req jersey.Request) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	system := req.SystemPrompt
	if system == "" {
		system = jersey.DefaultSystemPrompt
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = jersey.DefaultPrompt
	}
	mime := req.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(req.Image, mime),
		}, genai.RoleUser),
	}

	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		ResponseMIMEType:  "application/json",
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(req.Format) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(req.Format, &schema); err != nil {
			return nil, nil, fmt.Errorf("decoding response format: %w", err)
		}
		gc.ResponseJsonSchema = schema
	}
	return contents, gc, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		// first candidate only
		break
	}
	return sb.String()
}

func (b *Backend) backendError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &jersey.BackendError{
			Backend:    b.Name(),
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Body:       apiErr.Message,
			Err:        err,
		}
	}
	return &jersey.BackendError{Backend: b.Name(), Err: err}
}
