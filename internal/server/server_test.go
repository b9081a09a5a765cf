package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/suranovab/hw05-final/internal/config"
)

func newTestServer() *Server {
	return NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 status")
	}
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	s := newTestServer()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "page not found") {
		t.Fatalf("expected custom not-found page")
	}
}

func TestLoginPageAvailable(t *testing.T) {
	s := newTestServer()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page, got %d", resp.StatusCode)
	}
}

func TestProtectedPageRedirectsAnonymous(t *testing.T) {
	s := newTestServer()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/posts/create", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login redirect, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Location"), "/auth/login?next=") {
		t.Fatalf("expected return path, got %q", resp.Header.Get("Location"))
	}
}
