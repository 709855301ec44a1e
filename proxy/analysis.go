package proxy

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/llm"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/validation"
)

const (
	// MsgAnalysisFailed is the error message for any failed analysis.
	MsgAnalysisFailed = "Analysis failed"

	SystemPrompt = "You are a helpful assistant that summarizes meeting transcripts. " +
		"Focus on key points, action items, and decisions made."
	userPromptPrefix = "Please analyze this meeting transcript and provide a concise summary:\n\n"
)

// AnalyzeRequest is the /analyze body.
type AnalyzeRequest struct {
	Transcript string `json:"transcript" validate:"notblank"`
}

// AnalyzeResponse is the /analyze result.
type AnalyzeResponse struct {
	Summary string `json:"summary"`
}

// UserPrompt builds the user message for a transcript.
func UserPrompt(transcript string) string {
	return userPromptPrefix + transcript
}

// AnalysisProxy summarizes transcripts with a chat-completion provider.
type AnalysisProxy struct {
	provider llm.Provider
	opts     Options
	log      *logger.Logger
}

// NewAnalysisProxy wraps p with logging, tracing and, when configured,
// metrics.
func NewAnalysisProxy(p llm.Provider, opts Options) *AnalysisProxy {
	opts.applyDefaults()
	return &AnalysisProxy{
		provider: wrap(p, "analysis", opts),
		opts:     opts,
		log:      opts.Logger.WithComponent("analysis-proxy"),
	}
}

// Available reports whether the provider has a credential.
func (a *AnalysisProxy) Available(ctx context.Context) bool {
	return a.provider.IsAvailable(ctx)
}

// Analyze validates req and returns the provider's summary. A blank
// transcript is rejected without calling the provider.
func (a *AnalysisProxy) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	callCtx, cancel := detach(ctx, a.opts.Timeout)
	defer cancel()

	summary, err := llm.Complete(callCtx, a.provider, SystemPrompt, UserPrompt(req.Transcript))
	if err != nil {
		return nil, analysisError(err)
	}
	return &AnalyzeResponse{Summary: summary}, nil
}

func analysisError(err error) error {
	var lerr *llm.Error
	if errors.As(err, &lerr) {
		if lerr.Timeout {
			return apperrors.UpstreamTimeout(MsgAnalysisFailed, err)
		}
		return apperrors.Upstream(MsgAnalysisFailed, lerr.Details, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.UpstreamTimeout(MsgAnalysisFailed, err)
	}
	return apperrors.Upstream(MsgAnalysisFailed, err.Error(), err)
}
