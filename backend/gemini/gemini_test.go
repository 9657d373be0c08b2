package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	jersey "github.com/jamesainslie/go-jersey"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}},
		},
	}
}

func TestExtract_Request(t *testing.T) {
	fake := &fakeModels{resp: textResponse(
		&genai.Part{Text: "thinking about it", Thought: true},
		&genai.Part{Text: `{"number": [8],`},
		&genai.Part{Text: ` "last_name": ["SMITH"]}`},
	)}

	b, err := New(context.Background(), "gemini-2.5-flash", WithModels(fake))
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", b.Name())

	img := []byte{0x89, 'P', 'N', 'G'}
	out, err := b.Extract(context.Background(), jersey.Request{
		Image:       img,
		MIMEType:    "image/png",
		Prompt:      "read it",
		Format:      jersey.DefaultFormat,
		MaxTokens:   128,
		Temperature: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"number": [8], "last_name": ["SMITH"]}`, out.Text)

	assert.Equal(t, "gemini-2.5-flash", fake.model)
	require.Len(t, fake.contents, 1)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "read it", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, img, parts[1].InlineData.Data)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)

	cfg := fake.config
	assert.Equal(t, int32(128), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, float32(0.5), *cfg.Temperature)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.NotNil(t, cfg.ResponseJsonSchema)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, jersey.DefaultSystemPrompt, cfg.SystemInstruction.Parts[0].Text)
}

func TestExtract_APIError(t *testing.T) {
	fake := &fakeModels{err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}}
	b, err := New(context.Background(), "m", WithModels(fake))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 429, be.StatusCode)
	assert.Equal(t, "RESOURCE_EXHAUSTED", be.Status)
	assert.Equal(t, "quota", be.Body)
}

func TestExtract_EmptyResponse(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{}}
	b, err := New(context.Background(), "m", WithModels(fake))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
