package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDoJSONWithBearerAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"q":"hi"}` {
			t.Errorf("unexpected body %s", body)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/v1/", Auth: BearerAuth("sk-test")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/chat",
		Body:   map[string]string{"q": "hi"},
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !resp.IsSuccess() || string(resp.Body) != `{"ok":true}` {
		t.Errorf("unexpected response: %d %s", resp.StatusCode, resp.Body)
	}
}

func TestDoStreamsMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3-audio-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.MultipartForm.Value["model"]; len(got) != 1 || got[0] != "whisper-1" {
			t.Errorf("unexpected model field %v", got)
		}
		if got := r.MultipartForm.Value["timestamp_granularities[]"]; len(got) != 2 {
			t.Errorf("expected repeated field, got %v", got)
		}
		fh := r.MultipartForm.File["file"]
		if len(fh) != 1 || fh[0].Filename != `odd"name.mp3` {
			t.Fatalf("unexpected file header %+v", fh)
		}
		if ct := fh[0].Header.Get("Content-Type"); ct != "audio/mpeg" {
			t.Errorf("unexpected part content type %q", ct)
		}
		f, _ := fh[0].Open()
		data, _ := io.ReadAll(f)
		if string(data) != "ID3-audio-bytes" {
			t.Errorf("unexpected file data %q", data)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	body := &MultipartBody{Files: []FileField{{
		FieldName:   "file",
		FileName:    `odd"name.mp3`,
		ContentType: "audio/mpeg",
		Path:        path,
	}}}
	body.Add("model", "whisper-1")
	body.Add("timestamp_granularities[]", "segment")
	body.Add("timestamp_granularities[]", "word")

	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/upload", Body: body}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestDoMultipartMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	body := &MultipartBody{Files: []FileField{{FieldName: "file", FileName: "x", Path: "/nonexistent/x.mp3"}}}

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: body})
	if err == nil {
		t.Fatal("expected error when the file cannot be opened")
	}
}

func TestDoClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		body      string
		code      ErrorCode
		retryable bool
		payload   any
	}{
		{http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, ErrCodeAuth, false, map[string]any{"error": map[string]any{"message": "bad key"}}},
		{http.StatusBadRequest, "unsupported format", ErrCodeValidation, false, "unsupported format"},
		{http.StatusTooManyRequests, "", ErrCodeRateLimit, true, "HTTP 429 Too Many Requests"},
		{http.StatusBadGateway, "", ErrCodeServer, true, "HTTP 502 Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			e, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if resp == nil || resp.StatusCode != tt.status {
				t.Errorf("expected response alongside error")
			}
			if e.Code != tt.code || e.Retryable != tt.retryable {
				t.Errorf("got code=%s retryable=%v", e.Code, e.Retryable)
			}
			got := e.Payload()
			switch want := tt.payload.(type) {
			case string:
				if got != want {
					t.Errorf("payload = %v, want %v", got, want)
				}
			case map[string]any:
				m, ok := got.(map[string]any)
				if !ok || m["error"] == nil {
					t.Errorf("payload = %v, want decoded JSON", got)
				}
			}
		})
	}
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline error, got %v", err)
	}
}

func TestDoConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	e, ok := AsError(err)
	if !ok || e.Code != ErrCodeConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !strings.Contains(e.Payload().(string), "connect") {
		t.Errorf("payload should carry the transport message, got %v", e.Payload())
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Timeout != 60*time.Second {
		t.Errorf("unexpected default timeout %v", cfg.Timeout)
	}
	if err := (&Config{Timeout: -1}).Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}
