package kimicheck_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const (
	modelsBody = `{"object":"list","data":[
		{"id":"kimi-latest","object":"model","created":1715000000,"owned_by":"moonshot"},
		{"id":"moonshot-v1-8k","object":"model","created":1715000000,"owned_by":"moonshot"}
	]}`

	chatBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1715000000,"model":"kimi-latest",
		"choices":[{"index":0,"message":{"role":"assistant","content":"Hi, I am Kimi, an AI assistant."},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":20,"completion_tokens":10,"total_tokens":30}}`

	unauthorizedBody = `{"error":{"message":"Invalid Authentication","type":"invalid_authentication_error"}}`

	serverErrorBody = `{"error":{"message":"the server is overloaded","type":"server_error"}}`
)

// endpoint is a canned response of the fake API.
type endpoint struct {
	status int
	body   string
}

var (
	modelsOK = endpoint{http.StatusOK, modelsBody}
	chatOK   = endpoint{http.StatusOK, chatBody}
)

// fakeAPI is an in-process stand-in for the Moonshot API.
type fakeAPI struct {
	mu       sync.Mutex
	models   endpoint
	chat     endpoint
	requests []*recordedRequest
}

type recordedRequest struct {
	Path          string
	Authorization string
	Header        http.Header
	Body          map[string]any
}

// newFakeAPI starts a fake API server, returning it with the base URL
// to point clients at.
func newFakeAPI(t *testing.T, models, chat endpoint) (*fakeAPI, string) {
	t.Helper()

	f := &fakeAPI{models: models, chat: chat}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		f.reply(w, f.models)
	})
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.record(t, r)
		f.reply(w, f.chat)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return f, srv.URL + "/v1"
}

// unreachableBaseURL returns a base URL nothing listens on.
func unreachableBaseURL(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL + "/v1"
	srv.Close()
	return u
}

func (f *fakeAPI) record(t *testing.T, r *http.Request) {
	rr := &recordedRequest{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Header:        r.Header.Clone(),
	}

	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		if len(b) > 0 {
			if err := json.Unmarshal(b, &rr.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, rr)
}

func (f *fakeAPI) reply(w http.ResponseWriter, e endpoint) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	io.WriteString(w, e.body)
}

func (f *fakeAPI) Requests() []*recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*recordedRequest(nil), f.requests...)
}
