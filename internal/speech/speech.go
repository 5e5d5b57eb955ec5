package speech

import "context"

// The three vendor-facing contracts the call orchestrator depends on.
//
// Rules:
// - No vendor SDK calls outside speech adapters.
// - Keep request/response types vendor-agnostic; the orchestrator must not
//   know whether audio came back as mp3 or opus beyond the mime type.

// Synthesizer converts text into a compressed audio stream.
type Synthesizer interface {
	// Synthesize returns encoded audio plus its mime type.
	// speed is a rate multiplier around 1.0; voice must be one of Voices.
	Synthesize(ctx context.Context, text, voice string, speed float64) (audio []byte, mimeType string, err error)

	// Configured reports whether the adapter has credentials. Call
	// placement is refused when synthesis is unavailable, since a call
	// without a voice is useless to this product.
	Configured() bool
}

// Transcriber converts recorded audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Message is a role-tagged utterance for the completion adapter.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces a text completion from a list of messages.
// Used for transcript cleanup and end-of-call summaries.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
