// Package ollama implements jersey.Backend on an Ollama server's
// /api/chat endpoint with a JSON-schema constrained response.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"

	jersey "github.com/jamesainslie/go-jersey"
)

const (
	// HostEnv overrides the default server address.
	HostEnv = "OLLAMA_HOST"

	defaultHost = "http://localhost:11434"
)

// ErrMissingContent indicates a response envelope without message content.
var ErrMissingContent = errors.New("ollama: response has no message content")

// Backend talks to one model on an Ollama server.
type Backend struct {
	model   string
	host    string
	client  *api.Client
	options map[string]any
	logger  *slog.Logger
}

// New creates a Backend for model. The host comes from WithHost, then
// OLLAMA_HOST, then http://localhost:11434.
func New(model string, opts ...Option) (*Backend, error) {
	cfg := config{
		httpClient: directHTTPClient(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	host := cfg.host
	if host == "" {
		host = os.Getenv(HostEnv)
	}
	if host == "" {
		host = defaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host %q: %w", host, err)
	}

	return &Backend{
		model:   model,
		host:    base.String(),
		client:  api.NewClient(base, recordingClient(cfg.httpClient)),
		options: cfg.options,
		logger:  cfg.logger,
	}, nil
}

// Name returns "ollama:<model>".
func (b *Backend) Name() string { return "ollama:" + b.model }

// Extract sends the image and prompts as a single non-streaming chat turn.
// A reply that decodes as a prediction is returned as a Record; anything
// else is returned as Text for the caller to extract from.
func (b *Backend) Extract(ctx context.Context, req jersey.Request) (jersey.Output, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	chatReq := b.buildChatRequest(req)
	b.logger.Debug("ollama chat", "host", b.host, "model", b.model, "image", req.ImagePath)

	rec := &responseRecord{}
	ctx = context.WithValue(ctx, recordKey{}, rec)

	var resp api.ChatResponse
	err := b.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return jersey.Output{}, b.backendError(err, rec)
	}

	content := resp.Message.Content
	if strings.TrimSpace(content) == "" {
		// The client reports nothing for an error status with an empty body.
		return jersey.Output{}, &jersey.BackendError{
			Backend:    b.Name(),
			StatusCode: rec.statusCode,
			Status:     rec.status,
			Body:       rec.body,
			Err:        ErrMissingContent,
		}
	}

	p, err := jersey.DecodePrediction([]byte(content))
	if err != nil {
		b.logger.Debug("content is not a bare prediction object", "image", req.ImagePath, "error", err)
		return jersey.Output{Text: content}, nil
	}
	return jersey.Output{Record: &p}, nil
}

func (b *Backend) buildChatRequest(req jersey.Request) *api.ChatRequest {
	system := req.SystemPrompt
	if system == "" {
		system = jersey.DefaultSystemPrompt
	}
	prompt := req.Prompt
	if prompt == "" {
		prompt = jersey.DefaultPrompt
	}
	keepAlive := req.KeepAlive
	if keepAlive == 0 {
		keepAlive = jersey.DefaultKeepAlive
	}

	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	for k, v := range b.options {
		options[k] = v
	}

	stream := false
	return &api.ChatRequest{
		Model: b.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt, Images: []api.ImageData{req.Image}},
		},
		Format:    req.Format,
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: keepAlive},
		Options:   options,
	}
}

// directHTTPClient ignores proxy environment variables; the server is
// usually local.
func directHTTPClient() *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = nil
	return &http.Client{Transport: tr}
}

func (b *Backend) backendError(err error, rec *responseRecord) error {
	be := &jersey.BackendError{
		Backend:    b.Name(),
		StatusCode: rec.statusCode,
		Status:     rec.status,
		Body:       rec.body,
		Err:        err,
	}

	var se api.StatusError
	var ae api.AuthorizationError
	switch {
	case errors.As(err, &se):
		be.StatusCode = se.StatusCode
		be.Status = se.Status
		if be.Body == "" {
			be.Body = se.ErrorMessage
		}
	case errors.As(err, &ae):
		be.StatusCode = ae.StatusCode
		be.Status = ae.Status
	}
	return be
}
