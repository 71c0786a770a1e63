package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func newFakeS3(t *testing.T, status int) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()

	ch := make(chan capturedRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
		select {
		case ch <- capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		}:
		default:
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, ch
}

func newTestUploader(t *testing.T, endpoint, prefix string) *S3Uploader {
	t.Helper()

	u, err := NewS3Uploader(context.Background(), Config{
		Bucket:    "reports",
		Prefix:    prefix,
		Endpoint:  endpoint,
		AccessKey: "test-access",
		SecretKey: "test-secret",
	}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return u
}

// TestNewS3Uploader tests the constructor.
func TestNewS3Uploader(t *testing.T) {
	t.Parallel()

	t.Run("requires bucket", func(t *testing.T) {
		t.Parallel()

		_, err := NewS3Uploader(context.Background(), Config{})
		if !errors.Is(err, ErrNoBucket) {
			t.Errorf("expected ErrNoBucket, got %v", err)
		}
	})

	t.Run("prefix is trimmed", func(t *testing.T) {
		t.Parallel()

		u := newTestUploader(t, "http://127.0.0.1:1", "/nightly/")
		if got := u.Key("a.csv"); got != "nightly/a.csv" {
			t.Errorf("expected nightly/a.csv, got %q", got)
		}
	})

	t.Run("no prefix", func(t *testing.T) {
		t.Parallel()

		u := newTestUploader(t, "http://127.0.0.1:1", "")
		if got := u.Key("a.csv"); got != "a.csv" {
			t.Errorf("expected a.csv, got %q", got)
		}
	})
}

// TestUploadFile tests a path-style PUT against a fake endpoint.
func TestUploadFile(t *testing.T) {
	t.Parallel()

	t.Run("puts object", func(t *testing.T) {
		t.Parallel()

		server, requests := newFakeS3(t, http.StatusOK)
		u := newTestUploader(t, server.URL, "runs")

		file := filepath.Join(t.TempDir(), "cwv_report_2025-03-14.csv")
		if err := os.WriteFile(file, []byte("URL,Device\n"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		location, err := u.UploadFile(context.Background(), file)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if location != "s3://reports/runs/cwv_report_2025-03-14.csv" {
			t.Errorf("unexpected location %q", location)
		}

		req := <-requests
		if req.method != http.MethodPut {
			t.Errorf("expected PUT, got %s", req.method)
		}
		if req.path != "/reports/runs/cwv_report_2025-03-14.csv" {
			t.Errorf("unexpected path %q", req.path)
		}
		if req.contentType != "text/csv; charset=utf-8" {
			t.Errorf("unexpected content type %q", req.contentType)
		}
		if req.body != "URL,Device\n" {
			t.Errorf("unexpected body %q", req.body)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		u := newTestUploader(t, "http://127.0.0.1:1", "")
		if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestContentType tests media type guessing.
func TestContentType(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{
		"a.csv":  "text/csv; charset=utf-8",
		"a.JSON": "application/json",
		"a.md":   "text/markdown; charset=utf-8",
		"a.txt":  "text/plain; charset=utf-8",
	} {
		if got := ContentType(name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
}
