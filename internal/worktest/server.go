// Package worktest provides a fake Work REST server for command tests.
package worktest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Token is the token handed out by every successful login.
const Token = "test-token"

// Server is a TLS test server speaking the login, reserve and
// create-subfolder endpoints. Exported fields configure failures and must be
// set before requests are made.
type Server struct {
	*httptest.Server

	// LoginStatus, when non-zero, is returned by every login endpoint.
	LoginStatus int

	// PreferredDatabase is returned by network login.
	PreferredDatabase string

	// ReserveStatuses are returned by successive reserve calls; once
	// exhausted, calls succeed.
	ReserveStatuses []int

	// FolderFailAt fails the n-th (1-based) create-subfolder call with 500.
	FolderFailAt int

	mu       sync.Mutex
	requests []*Request
}

// Request is a recorded request.
type Request struct {
	Method string
	Path   string
	Token  string
	Body   map[string]string
}

// NewServer starts a server and closes it when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{PreferredDatabase: "ACTIVE"}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the recorded requests, in arrival order.
func (s *Server) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many recorded requests have a path with the given
// suffix.
func (s *Server) Count(pathSuffix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasSuffix(r.Path, pathSuffix) {
			n++
		}
	}
	return n
}

func (s *Server) record(r *http.Request) *Request {
	rec := &Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Token:  r.Header.Get("X-Auth-Token"),
		Body:   map[string]string{},
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		_ = r.ParseForm()
		for k := range r.PostForm {
			rec.Body[k] = r.PostForm.Get(k)
		}
	} else if r.Body != nil {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for k, v := range body {
				rec.Body[k] = fmt.Sprint(v)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, rec)
	return rec
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	rec := s.record(r)

	switch {
	case r.URL.Path == "/api/v1/session/login" || r.URL.Path == "/api/v1/session/network-login":
		if s.LoginStatus != 0 {
			writeJSON(w, s.LoginStatus, map[string]string{"error": "unauthorized"})
			return
		}
		resp := map[string]interface{}{"X-Auth-Token": Token}
		if strings.HasSuffix(r.URL.Path, "network-login") {
			resp["user"] = map[string]string{"preferred_database": s.PreferredDatabase}
		}
		writeJSON(w, http.StatusOK, resp)

	case r.URL.Path == "/auth/oauth2/token":
		if s.LoginStatus != 0 {
			writeJSON(w, s.LoginStatus, map[string]string{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token": Token,
			"token_type":   "bearer",
		})

	case strings.HasSuffix(r.URL.Path, "/reserve"):
		n := s.Count("/reserve")
		if n <= len(s.ReserveStatuses) && s.ReserveStatuses[n-1] != http.StatusOK {
			writeJSON(w, s.ReserveStatuses[n-1], map[string]string{"error": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]string{"document_number": fmt.Sprintf("AB-%d", 99+s.successes("/reserve"))},
		})

	case strings.HasSuffix(r.URL.Path, "/subfolders"):
		n := s.Count("/subfolders")
		if n == s.FolderFailAt {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"data": map[string]string{
				"id":       fmt.Sprintf("%s.%d", rec.Body["database"], n),
				"name":     rec.Body["name"],
				"database": rec.Body["database"],
			},
		})

	default:
		http.NotFound(w, r)
	}
}

// successes counts reserve calls that were not told to fail, including the
// current one.
func (s *Server) successes(pathSuffix string) int {
	n := s.Count(pathSuffix)
	failed := 0
	for i := 0; i < n && i < len(s.ReserveStatuses); i++ {
		if s.ReserveStatuses[i] != http.StatusOK {
			failed++
		}
	}
	return n - failed
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
