// Package transcription defines the speech-to-text provider contract and the
// request and result types shared by backends.
package transcription

import (
	"github.com/kbukum/meetscribe/provider"
)

// Provider is implemented by transcription backends. It is a plain
// RequestResponse so logging, tracing and metrics middleware compose on it.
type Provider = provider.RequestResponse[Request, *Result]
