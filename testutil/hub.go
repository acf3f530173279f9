package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// HubRequest is one request seen by a HubServer
type HubRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

// HubReply is a canned JSON answer
type HubReply struct {
	Status int
	Body   any
}

// HubServer is an httptest server answering "METHOD /path" routes with canned replies
type HubServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]HubReply
	requests []HubRequest
}

// NewHubServer starts a server closed when the test ends
func NewHubServer(t *testing.T) *HubServer {
	t.Helper()
	h := &HubServer{routes: make(map[string]HubReply)}
	h.Server = httptest.NewServer(http.HandlerFunc(h.serve))
	t.Cleanup(h.Close)
	return h
}

// Handle registers the reply for a method and path
func (h *HubServer) Handle(method, path string, status int, body any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes[method+" "+path] = HubReply{Status: status, Body: body}
}

// Requests returns everything received so far
func (h *HubServer) Requests() []HubRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]HubRequest(nil), h.requests...)
}

func (h *HubServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	query := make(map[string]string)
	for key := range r.URL.Query() {
		query[key] = r.URL.Query().Get(key)
	}

	h.mu.Lock()
	h.requests = append(h.requests, HubRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
		Header: r.Header.Clone(),
		Body:   body,
	})
	reply, ok := h.routes[r.Method+" "+r.URL.Path]
	h.mu.Unlock()

	if !ok {
		reply = HubReply{Status: http.StatusNotFound, Body: map[string]string{"detail": "Not Found"}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	if reply.Body != nil {
		_ = json.NewEncoder(w).Encode(reply.Body)
	}
}
