package figma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFileSendsToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Figma-Token")
		w.Write([]byte(`{"name":"My File","document":{"id":"0:0","name":"Document","type":"DOCUMENT"}}`))
	}))
	defer srv.Close()

	c := NewClient("tok-123", Config{BaseURL: srv.URL})
	f, err := c.File(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if gotToken != "tok-123" {
		t.Errorf("token header = %q, want tok-123", gotToken)
	}
	if f.Name != "My File" {
		t.Errorf("file name = %q", f.Name)
	}
}

func TestFileAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("bad", Config{BaseURL: srv.URL})
	_, err := c.File(context.Background(), "abc")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestFileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("tok", Config{BaseURL: srv.URL})
	_, err := c.File(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":"u1","email":"dev@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient("tok", Config{BaseURL: srv.URL})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyDefault(t *testing.T) {
	// TLS verification must be on unless explicitly disabled.
	var cfg Config
	cfg.defaults()
	if cfg.InsecureSkipVerify {
		t.Fatal("InsecureSkipVerify must default to false")
	}
}

func TestShortTimeoutDefault(t *testing.T) {
	var cfg Config
	cfg.defaults()
	if cfg.Timeout != 300*time.Second {
		t.Errorf("Timeout = %v, want 300s", cfg.Timeout)
	}
	if cfg.ShortTimeout != 30*time.Second {
		t.Errorf("ShortTimeout = %v, want 30s", cfg.ShortTimeout)
	}
}

func TestFileNodesUsesShortTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"nodes":{}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", Config{BaseURL: srv.URL, ShortTimeout: 20 * time.Millisecond})

	// The file endpoint keeps the long timeout and survives the slow server.
	if _, err := c.File(context.Background(), "abc"); err != nil {
		t.Fatalf("File with long timeout: %v", err)
	}

	// The nodes endpoint runs under the short timeout and must give up.
	_, err := c.FileNodes(context.Background(), "abc", []string{"1:2"})
	if err == nil {
		t.Fatal("expected timeout error from FileNodes")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestImagesQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"images":{"1:2":"https://cdn.example.com/img.png"}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", Config{BaseURL: srv.URL})
	images, err := c.Images(context.Background(), "abc", []string{"1:2"}, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if images["1:2"] == "" {
		t.Error("expected image URL for node 1:2")
	}
	for _, want := range []string{"ids=1%3A2", "format=png", "scale=1"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}
