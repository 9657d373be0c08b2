package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jersey "github.com/jamesainslie/go-jersey"
)

func chatServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if capture != nil {
			body := map[string]any{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*capture = body
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":      "deepseek-ocr",
			"created_at": "2024-01-01T00:00:00Z",
			"message":    map[string]any{"role": "assistant", "content": content},
			"done":       true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_Host(t *testing.T) {
	t.Setenv(HostEnv, "")
	b, err := New("m")
	require.NoError(t, err)
	assert.Equal(t, defaultHost, b.host)
	assert.Equal(t, "ollama:m", b.Name())

	t.Setenv(HostEnv, "gpu-box:11434")
	b, err = New("m")
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", b.host)

	b, err = New("m", WithHost("http://override:1"))
	require.NoError(t, err)
	assert.Equal(t, "http://override:1", b.host)
}

func TestExtract_WireShape(t *testing.T) {
	var got map[string]any
	srv := chatServer(t, `{"number":[8,12],"last_name":["SMITH",null],"color":["red","red"],"confidence":[0.9,0.4]}`, &got)

	b, err := New("deepseek-ocr", WithHost(srv.URL))
	require.NoError(t, err)

	image := []byte("fake-jpeg-bytes")
	out, err := b.Extract(context.Background(), jersey.Request{
		Image:       image,
		ImagePath:   "12-8.jpg",
		Prompt:      "read it",
		Format:      jersey.DefaultFormat,
		Temperature: 0,
		KeepAlive:   10 * time.Minute,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Record)
	assert.Equal(t, []int{8, 12}, out.Record.Numbers())

	assert.Equal(t, "deepseek-ocr", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.NotEmpty(t, got["keep_alive"])

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, jersey.DefaultSystemPrompt, system["content"])
	user := messages[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "read it", user["content"])
	assert.Equal(t, []any{base64.StdEncoding.EncodeToString(image)}, user["images"])

	format, err := json.Marshal(got["format"])
	require.NoError(t, err)
	assert.JSONEq(t, string(jersey.DefaultFormat), string(format))

	options, ok := got["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.0, options["temperature"])
}

func TestExtract_ExtraOptions(t *testing.T) {
	var got map[string]any
	srv := chatServer(t, `{"number":8}`, &got)

	b, err := New("m", WithHost(srv.URL), WithOptions(map[string]any{"num_ctx": 4096, "temperature": 0.3}))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{MaxTokens: 64})
	require.NoError(t, err)

	options := got["options"].(map[string]any)
	assert.Equal(t, 4096.0, options["num_ctx"])
	assert.Equal(t, 0.3, options["temperature"])
	assert.Equal(t, 64.0, options["num_predict"])
}

func TestExtract_TextFallback(t *testing.T) {
	srv := chatServer(t, "The player wears {\"number\": [8]}", nil)

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	out, err := b.Extract(context.Background(), jersey.Request{})
	require.NoError(t, err)
	assert.Nil(t, out.Record)
	assert.Equal(t, "The player wears {\"number\": [8]}", out.Text)
}

func TestExtract_MissingContent(t *testing.T) {
	srv := chatServer(t, "", nil)

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.ErrorIs(t, err, ErrMissingContent)
}

func TestExtract_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom: model crashed\n"))
	}))
	defer srv.Close()

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "ollama:m", be.Backend)
	assert.Contains(t, err.Error(), "boom: model crashed")
}

func TestExtract_EmptyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusServiceUnavailable, be.StatusCode)
	assert.Equal(t, "503 Service Unavailable", be.Status)
	assert.Empty(t, be.Body)
	assert.ErrorIs(t, err, ErrMissingContent)
	assert.Equal(t, "ollama:m error: 503 Service Unavailable", err.Error())
}

func TestExtract_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusUnauthorized, be.StatusCode)
	assert.Equal(t, "401 Unauthorized", be.Status)
	assert.Equal(t, `{"error":"unauthorized"}`, be.Body)
}

func TestExtract_StatusErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"m\" not found"}`))
	}))
	defer srv.Close()

	b, err := New("m", WithHost(srv.URL))
	require.NoError(t, err)

	_, err = b.Extract(context.Background(), jersey.Request{})
	var be *jersey.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusNotFound, be.StatusCode)
	assert.Contains(t, be.Body, "not found")
}
