package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// EchoedRequest is the body an echo server answers with.
type EchoedRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// EchoServer is a test HTTP server answering every request with a description of it,
// in the same spirit as httpbin's /anything endpoint.
type EchoServer struct {
	*httptest.Server

	calls  atomic.Int64
	status int
}

// Header returns the value of the echoed header key, whatever its case.
func (e EchoedRequest) Header(key string) string {
	return e.Headers[http.CanonicalHeaderKey(key)]
}

// NewEchoServer starts an echo server answering with status and registers its shutdown on t.
func NewEchoServer(t *testing.T, status int) *EchoServer {
	t.Helper()

	s := &EchoServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)

		headers := make(map[string]string)
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_ = json.NewEncoder(w).Encode(EchoedRequest{
			Method:  r.Method,
			URL:     "http://" + r.Host + r.URL.RequestURI(),
			Headers: headers,
		})
	}))
	t.Cleanup(s.Close)

	return s
}

// Calls returns how many requests the server received.
func (s *EchoServer) Calls() int {
	return int(s.calls.Load())
}
