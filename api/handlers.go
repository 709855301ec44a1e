// Package api holds the HTTP handlers for transcription and analysis.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/proxy"
	"github.com/kbukum/meetscribe/server"
	"github.com/kbukum/meetscribe/upload"
)

// MsgMissingKey is returned when no provider credential is configured.
const MsgMissingKey = "API key not configured"

// Handlers serves /transcribe and /analyze.
type Handlers struct {
	store       *upload.Store
	transcriber *proxy.TranscriptionProxy
	analyzer    *proxy.AnalysisProxy
	log         *logger.Logger
}

// NewHandlers creates the handlers.
func NewHandlers(store *upload.Store, transcriber *proxy.TranscriptionProxy, analyzer *proxy.AnalysisProxy, log *logger.Logger) *Handlers {
	return &Handlers{
		store:       store,
		transcriber: transcriber,
		analyzer:    analyzer,
		log:         log.WithComponent("api"),
	}
}

// Transcribe accepts a multipart upload and relays the provider transcript.
// The credential is checked before any of the body is read.
func (h *Handlers) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()
	if !h.transcriber.Available(ctx) {
		server.RespondWithError(c, apperrors.Configuration(MsgMissingKey))
		return
	}

	form, err := h.store.Parse(c.Writer, c.Request)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	result, err := h.transcriber.Relay(ctx, form)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondRaw(c, http.StatusOK, "application/json", result.Raw)
}

// Analyze accepts {"transcript": "..."} and returns {"summary": "..."}.
func (h *Handlers) Analyze(c *gin.Context) {
	if !h.analyzer.Available(c.Request.Context()) {
		server.RespondWithError(c, apperrors.Configuration(MsgMissingKey))
		return
	}

	var req proxy.AnalyzeRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		server.RespondWithError(c, decodeError(err))
		return
	}

	resp, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondJSON(c, http.StatusOK, resp)
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.PayloadTooLarge("request body too large", maxErr.Limit)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.Validation("request body is empty")
	}
	return apperrors.Validation("invalid JSON body").WithCause(err)
}
