package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var calls []int64
	pw := &ProgressWriter{
		Writer:   &buf,
		Total:    10,
		OnUpdate: func(written, total int64) { calls = append(calls, written) },
	}

	pw.Write([]byte("abcd"))
	pw.Write([]byte("efghij"))

	if buf.String() != "abcdefghij" {
		t.Errorf("buffer = %q", buf.String())
	}
	if pw.Written != 10 {
		t.Errorf("Written = %d, want 10", pw.Written)
	}
	if len(calls) != 2 || calls[1] != 10 {
		t.Errorf("OnUpdate calls = %v, want [4 10]", calls)
	}
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "addprompt" {
			t.Errorf("User-Agent = %q", ua)
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("1ba\n1be\n"))
	}))
	defer srv.Close()

	c := NewClient()
	body, err := c.Get(context.Background(), srv.URL+"/hyph.dic")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "1ba\n1be\n" {
		t.Errorf("Get() = %q", body)
	}

	if _, err := c.Get(context.Background(), srv.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Get(missing) error = %v, want HTTP 404", err)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	content := strings.Repeat("1ab\n", 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "dicts", "hyph_es.dic")

	var last int64
	err := NewClient().DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		last = written
	})
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("downloaded %d bytes, want %d", len(got), len(content))
	}
	if last != int64(len(content)) {
		t.Errorf("last progress = %d, want %d", last, len(content))
	}

	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the dictionary", len(entries))
	}
}

func TestClient_DownloadFileError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "hyph_es.dic")
	if err := NewClient().DownloadFile(context.Background(), srv.URL, dest, nil); err == nil {
		t.Fatal("DownloadFile() should fail on HTTP 500")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist, stat error = %v", err)
	}
}
