// Package testutil provides a scriptable fake of the Spotly backend
// for tests. Routes are registered with a fluent API and every request
// is recorded for assertions.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request is one recorded call against the fake server.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Server is a fake Spotly API backed by httptest.
type Server struct {
	*httptest.Server

	mux *http.ServeMux

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a fake server. Callers must Close it.
func NewServer() *Server {
	s := &Server{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mux.ServeHTTP(w, r)
	}))
	return s
}

// HandleJSON registers a route (ServeMux "METHOD /path" pattern)
// responding with the given status and JSON body.
func (s *Server) HandleJSON(pattern string, status int, v any) *Server {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
	return s
}

// HandleError registers a route responding with the backend's error
// body shape.
func (s *Server) HandleError(pattern string, status int, message string) *Server {
	return s.HandleJSON(pattern, status, map[string]any{
		"code":    status,
		"message": message,
	})
}

// HandleFunc registers a raw handler for full control.
func (s *Server) HandleFunc(pattern string, fn http.HandlerFunc) *Server {
	s.mux.HandleFunc(pattern, fn)
	return s
}

// Requests returns a snapshot of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many recorded requests match method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}
