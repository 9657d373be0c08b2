// Package openai implements jersey.Backend on any server speaking the
// OpenAI chat-completions API with image inputs (OpenAI, vLLM, LM Studio).
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	jersey "github.com/jamesainslie/go-jersey"
)

// ErrNoChoices indicates a completion without any choice.
var ErrNoChoices = errors.New("openai: completion has no choices")

const schemaName = "jersey_prediction"

// Backend sends one chat completion per image.
type Backend struct {
	model  string
	client openai.Client
	logger *slog.Logger
}

// New creates a Backend for model. OPENAI_API_KEY and OPENAI_BASE_URL are
// honored unless overridden with WithAPIKey or WithBaseURL.
func New(model string, opts ...Option) *Backend {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	// No retries: one request per image.
	clientOpts := []openaiopt.RequestOption{openaiopt.WithMaxRetries(0)}
	if cfg.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, openaiopt.WithHTTPClient(cfg.httpClient))
	}

	return &Backend{
		model:  model,
		client: openai.NewClient(clientOpts...),
		logger: cfg.logger,
	}
}

// Name returns "openai:<model>".
func (b *Backend) Name() string { return "openai:" + b.model }

// Extract returns the first choice's content as free text.
func (b *Backend) Extract(ctx context.Context, req jersey.Request) (jersey.Output, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	params, err := b.buildParams(req)
	if err != nil {
		return jersey.Output{}, err
	}
	b.logger.Debug("openai chat completion", "model", b.model, "image", req.ImagePath)

	completion, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return jersey.Output{}, b.backendError(err)
	}
	if len(completion.Choices) == 0 {
		return jersey.Output{}, &jersey.BackendError{Backend: b.Name(), Err: ErrNoChoices}
	}
	return jersey.Output{Text: completion.Choices[0].Message.Content}, nil
}

func (b *Backend) buildParams(req jersey.Request) (openai.ChatCompletionNewParams, error) {
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

	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfText: &openai.ChatCompletionContentPartTextParam{Text: prompt}},
		{OfImageURL: &openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(req.Image),
			},
		}},
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{OfString: openai.String(system)},
			}},
			{OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{OfArrayOfContentParts: parts},
			}},
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if len(req.Format) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(req.Format, &schema); err != nil {
			return params, fmt.Errorf("decoding response format: %w", err)
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: schema,
				},
			},
		}
	}
	return params, nil
}

func (b *Backend) backendError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		be := &jersey.BackendError{
			Backend:    b.Name(),
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.RawJSON(),
			Err:        err,
		}
		if apiErr.Response != nil {
			be.Status = apiErr.Response.Status
		}
		return be
	}
	return &jersey.BackendError{Backend: b.Name(), Err: err}
}
