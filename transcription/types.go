package transcription

import (
	"encoding/json"
)

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the stored upload.
	AudioPath string
	// FileName is the original client file name sent to the provider.
	FileName string
	// MIMEType is the content type of the audio part.
	MIMEType string
	// Prompt is optional context for the model. Empty means no prompt field.
	Prompt string
	// Model overrides the provider default when set.
	Model string
	// Language overrides the provider default when set (e.g. "en").
	Language string
}

// Result holds the provider's response. Raw is relayed to clients byte for
// byte; the other fields are a best-effort decoded view for logging.
type Result struct {
	Raw      json.RawMessage `json:"-"`
	Text     string          `json:"text"`
	Segments []Segment       `json:"segments,omitempty"`
	Language string          `json:"language,omitempty"`
	Duration float64         `json:"duration,omitempty"`
}

// Segment is a time-aligned portion of a transcript, in provider order.
type Segment struct {
	Speaker string  `json:"speaker,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// ParseResult wraps a provider body. The body is kept even when it does not
// decode into the expected shape; ok reports whether it did.
func ParseResult(body []byte) (res *Result, ok bool) {
	res = &Result{}
	if err := json.Unmarshal(body, res); err != nil {
		res = &Result{}
		ok = false
	} else {
		ok = true
	}
	res.Raw = json.RawMessage(body)
	return res, ok
}
