package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// OKResponse is a well-formed ntfy publish acknowledgement.
const OKResponse = `{"id":"Zx81qLm2","time":1700000000,"expires":1700043200,"event":"message","topic":"alerts"}`

// Request is one request captured by a FakeServer.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the captured body as a JSON object.
func (r Request) JSON(t testing.TB) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(r.Body, &payload); err != nil {
		t.Fatalf("decode request body %q: %v", r.Body, err)
	}
	return payload
}

// FakeServer is an ntfy stand-in that records requests and answers every
// publish with a fixed status and body.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewFakeServer starts a FakeServer and registers cleanup.
func NewFakeServer(t testing.TB, status int, body string) *FakeServer {
	t.Helper()
	fake := &FakeServer{}
	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		fake.mu.Lock()
		fake.requests = append(fake.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   data,
		})
		fake.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fake.Close)
	return fake
}

// Requests returns a snapshot of the captured requests.
func (f *FakeServer) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Last returns the most recent request, failing the test when there is none.
func (f *FakeServer) Last(t testing.TB) Request {
	t.Helper()
	reqs := f.Requests()
	if len(reqs) == 0 {
		t.Fatal("expected a request")
	}
	return reqs[len(reqs)-1]
}
