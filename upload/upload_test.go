package upload

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/logger"
)

func newTestStore(t *testing.T, maxSize string) *Store {
	t.Helper()
	s, err := NewStore(Config{MaxFileSize: maxSize, TempDir: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

type part struct {
	field, filename, content string
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		var (
			fw  io.Writer
			err error
		)
		if p.filename != "" {
			fw, err = w.CreateFormFile(p.field, p.filename)
		} else {
			fw, err = w.CreateFormField(p.field)
		}
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(p.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func entries(t *testing.T, dir string) int {
	t.Helper()
	list, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(list)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.MaxBytes() != 50<<20 {
		t.Errorf("expected 50MiB, got %d", cfg.MaxBytes())
	}
	if !strings.HasSuffix(cfg.TempDir, "meetscribe") {
		t.Errorf("unexpected temp dir %s", cfg.TempDir)
	}
	if err := (&Config{MaxFileSize: "0"}).Validate(); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestParseStoresAudioAndPrompt(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := multipartRequest(t,
		part{field: "prompt", content: "  standup meeting  "},
		part{field: "audio", filename: "../meeting.wav", content: "RIFF....WAVEfmt "},
		part{field: "audio", filename: "second.wav", content: "ignored"},
		part{field: "extra", content: "ignored"},
	)

	form, err := s.Parse(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer func() { _ = form.Audio.Release() }()

	if form.Prompt != "  standup meeting  " {
		t.Errorf("unexpected prompt %q", form.Prompt)
	}
	if form.Audio.FileName != "meeting.wav" {
		t.Errorf("unexpected file name %q", form.Audio.FileName)
	}
	if form.Audio.Size != int64(len("RIFF....WAVEfmt ")) {
		t.Errorf("unexpected size %d", form.Audio.Size)
	}
	if form.Audio.MIMEType == "" {
		t.Error("expected a MIME type")
	}
	if !strings.HasPrefix(form.Audio.Path, s.Dir()) {
		t.Errorf("file outside store dir: %s", form.Audio.Path)
	}
	if n := entries(t, s.Dir()); n != 1 {
		t.Errorf("expected one stored file, got %d", n)
	}
}

func TestParseMissingAudio(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := multipartRequest(t, part{field: "prompt", content: "hello"})

	_, err := s.Parse(httptest.NewRecorder(), req)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeMissingField {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
}

func TestParseAudioTextFieldIsNotAFile(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := multipartRequest(t, part{field: "audio", content: "not a file"})

	_, err := s.Parse(httptest.NewRecorder(), req)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeMissingField {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
	if n := entries(t, s.Dir()); n != 0 {
		t.Errorf("text field must not be stored, found %d entries", n)
	}
}

func TestParseMeasuresMP3Duration(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := multipartRequest(t, part{field: "audio", filename: "clip.mp3", content: string(silentMP3(40))})

	form, err := s.Parse(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer func() { _ = form.Audio.Release() }()

	if form.Audio.MIMEType != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %s", form.Audio.MIMEType)
	}
	// 40 frames of 1152 samples at 44.1kHz.
	want := 40 * 1152 * time.Second / 44100
	if diff := form.Audio.Duration - want; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("expected duration near %v, got %v", want, form.Audio.Duration)
	}
}

// silentMP3 builds an empty ID3v2 tag followed by n MPEG-1 Layer III
// frames, 128kbps, 44.1kHz, no padding.
func silentMP3(n int) []byte {
	frame := make([]byte, 417)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
	out := []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	for i := 0; i < n; i++ {
		out = append(out, frame...)
	}
	return out
}

func TestParseTooLarge(t *testing.T) {
	s := newTestStore(t, "1KB")
	req := multipartRequest(t, part{field: "audio", filename: "big.mp3", content: strings.Repeat("x", 2048)})

	_, err := s.Parse(httptest.NewRecorder(), req)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodePayloadTooLarge {
		t.Fatalf("expected PAYLOAD_TOO_LARGE, got %v", err)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.HTTPStatus)
	}
	if n := entries(t, s.Dir()); n != 0 {
		t.Errorf("expected partial file removed, found %d entries", n)
	}
}

func TestParseNotMultipart(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	_, err := s.Parse(httptest.NewRecorder(), req)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestParsePromptTooLong(t *testing.T) {
	s := newTestStore(t, "1MB")
	req := multipartRequest(t,
		part{field: "audio", filename: "a.mp3", content: "abc"},
		part{field: "prompt", content: strings.Repeat("p", maxPromptBytes+1)},
	)

	_, err := s.Parse(httptest.NewRecorder(), req)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if n := entries(t, s.Dir()); n != 0 {
		t.Errorf("expected stored audio removed, found %d entries", n)
	}
}

func TestConcurrentSameNameUploads(t *testing.T) {
	s := newTestStore(t, "1MB")
	const n = 8

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = map[string]*Audio{}
		errs  []error
	)
	reqs := make([]*http.Request, n)
	for i := range reqs {
		reqs[i] = multipartRequest(t, part{field: "audio", filename: "audio.mp3", content: "data"})
	}
	for _, req := range reqs {
		req := req
		wg.Add(1)
		go func() {
			defer wg.Done()
			form, err := s.Parse(httptest.NewRecorder(), req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			paths[form.Audio.Path] = form.Audio
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(paths) != n {
		t.Fatalf("expected %d distinct paths, got %d", n, len(paths))
	}

	var first *Audio
	for _, a := range paths {
		first = a
		break
	}
	if err := first.Release(); err != nil {
		t.Fatal(err)
	}
	if got := entries(t, s.Dir()); got != n-1 {
		t.Errorf("releasing one upload must leave the others, got %d entries", got)
	}
	for _, a := range paths {
		_ = a.Release()
	}
	if got := entries(t, s.Dir()); got != 0 {
		t.Errorf("expected empty dir, got %d entries", got)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	dir := t.TempDir()
	f, err := os.CreateTemp(dir, "audio")
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	a := &Audio{Path: f.Name()}
	if err := a.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := a.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if _, err := os.Stat(f.Name()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file removed, stat err %v", err)
	}

	gone := &Audio{Path: dir + "/missing"}
	if err := gone.Release(); err != nil {
		t.Errorf("missing file must not be an error: %v", err)
	}
}

func TestMP3DurationUndecodable(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "x.mp3")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("not an mp3")
	_ = f.Close()

	if d := mp3Duration(f.Name()); d != 0 {
		t.Errorf("expected zero duration, got %v", d)
	}
}
