package proxy

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/httpclient"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/transcription"
	"github.com/kbukum/meetscribe/upload"
)

// MsgTranscriptionFailed is the error message for any failed transcription.
const MsgTranscriptionFailed = "Transcription failed"

// TranscriptionProxy sends stored uploads to a transcription provider.
type TranscriptionProxy struct {
	provider transcription.Provider
	opts     Options
	log      *logger.Logger
}

// NewTranscriptionProxy wraps p with logging, tracing and, when configured,
// metrics.
func NewTranscriptionProxy(p transcription.Provider, opts Options) *TranscriptionProxy {
	opts.applyDefaults()
	return &TranscriptionProxy{
		provider: wrap(p, "transcription", opts),
		opts:     opts,
		log:      opts.Logger.WithComponent("transcription-proxy"),
	}
}

// Available reports whether the provider has a credential.
func (t *TranscriptionProxy) Available(ctx context.Context) bool {
	return t.provider.IsAvailable(ctx)
}

// Relay forwards the upload and returns the provider result. The temporary
// file is released before Relay returns, whatever the outcome; a release
// failure is logged and does not change the result.
func (t *TranscriptionProxy) Relay(ctx context.Context, form *upload.Form) (*transcription.Result, error) {
	audio := form.Audio
	defer func() {
		if err := audio.Release(); err != nil {
			t.log.WithContext(ctx).Error("failed to remove temp file", map[string]any{
				logger.FieldPath:  audio.Path,
				logger.FieldError: err,
			})
		}
	}()

	if t.opts.Metrics != nil {
		t.opts.Metrics.RecordUpload(ctx, audio.Size, audio.MIMEType, audio.Duration)
	}

	callCtx, cancel := detach(ctx, t.opts.Timeout)
	defer cancel()
	callCtx, span := observability.StartSpan(callCtx, "transcription.relay")
	defer span.End()

	observability.SetSpanAttribute(callCtx, observability.AttrUploadSize, audio.Size)
	observability.SetSpanAttribute(callCtx, observability.AttrUploadMIME, audio.MIMEType)
	if audio.Duration > 0 {
		observability.SetSpanAttribute(callCtx, observability.AttrUploadDuration, audio.Duration.Seconds())
	}

	result, err := t.provider.Execute(callCtx, transcription.Request{
		AudioPath: audio.Path,
		FileName:  audio.FileName,
		MIMEType:  audio.MIMEType,
		Prompt:    form.Prompt,
	})
	if err != nil {
		observability.SetSpanError(callCtx, err)
		return nil, transcriptionError(err)
	}
	t.log.WithContext(ctx).Debug("transcript received", map[string]any{
		"segments":       len(result.Segments),
		"language":       result.Language,
		logger.FieldSize: len(result.Raw),
	})
	return result, nil
}

func transcriptionError(err error) error {
	if herr, ok := httpclient.AsError(err); ok {
		if herr.Code == httpclient.ErrCodeTimeout {
			return apperrors.UpstreamTimeout(MsgTranscriptionFailed, err)
		}
		return apperrors.Upstream(MsgTranscriptionFailed, herr.Payload(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.UpstreamTimeout(MsgTranscriptionFailed, err)
	}
	return apperrors.Upstream(MsgTranscriptionFailed, err.Error(), err)
}
