// Package llm defines the chat-completion provider contract and the error
// type backends return, so callers can map failures without knowing the SDK.
package llm

import (
	"errors"
	"fmt"

	"github.com/kbukum/meetscribe/provider"
)

// Provider is implemented by chat-completion backends.
type Provider = provider.RequestResponse[CompletionRequest, *CompletionResponse]

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("llm: provider returned no choices")

// Error is a failed provider call.
type Error struct {
	// StatusCode is the provider's HTTP status, 0 for transport failures.
	StatusCode int
	Message    string
	// Details is the provider's error payload, or a transport message.
	Details any
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return "llm: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
