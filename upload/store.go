// Package upload accepts multipart audio uploads and persists the audio part
// to a uniquely named temporary file.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/tcolgate/mp3"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/util"
)

const (
	// FieldAudio is the multipart field carrying the audio file.
	FieldAudio = "audio"
	// FieldPrompt is the optional text field forwarded to the provider.
	FieldPrompt = "prompt"

	octetStream = "application/octet-stream"
)

// Form is the parsed upload.
type Form struct {
	Audio  *Audio
	Prompt string
}

// Store writes uploads into its directory.
type Store struct {
	dir      string
	maxBytes int64
	log      *logger.Logger
}

// NewStore creates the temporary directory if needed.
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.TempDir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: cfg.TempDir, maxBytes: cfg.MaxBytes(), log: log.WithComponent("upload")}, nil
}

// Dir returns the temporary directory.
func (s *Store) Dir() string { return s.dir }

// MaxBytes returns the file size limit.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Parse streams the multipart body. The first "audio" file part is written
// to disk; later audio parts, an "audio" text field and unknown fields are
// drained. On error no
// file is left behind.
func (s *Store) Parse(w http.ResponseWriter, r *http.Request) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+formOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperrors.Validation("invalid multipart form").WithCause(err)
	}

	form := &Form{}
	fail := func(err error) (*Form, error) {
		if form.Audio != nil {
			s.release(r, form.Audio)
		}
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(s.readError(err))
		}

		switch {
		case part.FormName() == FieldAudio && part.FileName() != "" && form.Audio == nil:
			audio, err := s.save(part)
			if err != nil {
				_ = part.Close()
				return fail(err)
			}
			form.Audio = audio
		case part.FormName() == FieldPrompt && part.FileName() == "":
			prompt, err := readPrompt(part)
			if err != nil {
				_ = part.Close()
				return fail(s.readError(err))
			}
			form.Prompt = prompt
		default:
			if _, err := io.Copy(io.Discard, part); err != nil {
				_ = part.Close()
				return fail(s.readError(err))
			}
		}
		_ = part.Close()
	}

	if form.Audio == nil {
		return nil, apperrors.MissingField(FieldAudio, "no file uploaded")
	}

	s.log.WithContext(r.Context()).Debug("upload stored", map[string]any{
		logger.FieldPath: form.Audio.Path,
		logger.FieldSize: form.Audio.Size,
		"mime_type":      form.Audio.MIMEType,
		"duration_s":     form.Audio.Duration.Seconds(),
	})
	return form, nil
}

// save writes one part to a new file in the store directory.
func (s *Store) save(part *multipart.Part) (*Audio, error) {
	name := util.SanitizeFilename(part.FileName(), "audio")
	path := filepath.Join(s.dir, tempName(name))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create temp file: %w", err))
	}
	audio := &Audio{Path: path, FileName: name}

	n, copyErr := io.Copy(f, io.LimitReader(part, s.maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = audio.Release()
		return nil, s.readError(copyErr)
	case n > s.maxBytes:
		_ = audio.Release()
		return nil, s.tooLarge()
	case closeErr != nil:
		_ = audio.Release()
		return nil, apperrors.Internal(fmt.Errorf("write temp file: %w", closeErr))
	}

	audio.Size = n
	audio.MIMEType = detectMIME(path, part.Header.Get("Content-Type"))
	if audio.MIMEType == "audio/mpeg" {
		audio.Duration = mp3Duration(path)
	}
	return audio, nil
}

func (s *Store) release(r *http.Request, a *Audio) {
	if err := a.Release(); err != nil {
		s.log.WithContext(r.Context()).Error("failed to remove temp file", map[string]any{
			logger.FieldPath:  a.Path,
			logger.FieldError: err,
		})
	}
}

func (s *Store) readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return s.tooLarge()
	}
	if errors.Is(err, errPromptTooLong) {
		return apperrors.Validation(err.Error())
	}
	return apperrors.Validation("failed to read multipart form").WithCause(err)
}

func (s *Store) tooLarge() error {
	return apperrors.PayloadTooLarge("file too large", s.maxBytes)
}

// tempName yields "<unix-nanos>-<8 hex>-<name>", unique across concurrent
// requests carrying the same client file name.
func tempName(name string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixNano(), uuid.NewString()[:8], name)
}

var errPromptTooLong = fmt.Errorf("prompt exceeds %d bytes", maxPromptBytes)

func readPrompt(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxPromptBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > maxPromptBytes {
		return "", errPromptTooLong
	}
	return string(b), nil
}

// detectMIME sniffs the stored file and falls back to the declared type.
func detectMIME(path, declared string) string {
	mt, err := mimetype.DetectFile(path)
	if err == nil && !mt.Is(octetStream) && !mt.Is("text/plain") {
		return mt.String()
	}
	if declared != "" {
		return declared
	}
	if err == nil {
		return mt.String()
	}
	return octetStream
}

// mp3Duration sums frame durations. Undecodable input yields zero.
func mp3Duration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer func() { _ = f.Close() }()

	d := mp3.NewDecoder(f)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			return total
		}
		total += frame.Duration()
	}
}
