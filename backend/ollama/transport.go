package ollama

import (
	"bytes"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// responseRecord holds the status and body of a non-2xx reply for one
// Extract call.
type responseRecord struct {
	statusCode int
	status     string
	body       string
}

type recordKey struct{}

// recordingTransport copies non-2xx responses into the responseRecord
// carried by the request context, then hands the body on unchanged.
type recordingTransport struct {
	base http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	rec, ok := req.Context().Value(recordKey{}).(*responseRecord)
	if !ok || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return resp, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	rec.statusCode = resp.StatusCode
	rec.status = resp.Status
	rec.body = string(bytes.TrimSpace(body))
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// recordingClient returns a shallow copy of hc whose transport records
// error responses.
func recordingClient(hc *http.Client) *http.Client {
	wrapped := *hc
	base := wrapped.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = &recordingTransport{base: base}
	return &wrapped
}
