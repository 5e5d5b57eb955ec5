package telephony

import "context"

// Provider defines the provider-agnostic telephony interface used by the
// call orchestrator.
//
// Rules:
// - No provider REST calls outside telephony adapters.
// - Keep request/response types provider-agnostic; the orchestrator only
//   ever sees call SIDs, status strings and TwiML it built itself.
type Provider interface {
	// PlaceCall starts an outbound call and returns the provider call SID.
	// The provider fetches initial instructions from req.AnswerURL when the
	// far end picks up, and posts lifecycle events to req.StatusCallbackURL.
	PlaceCall(ctx context.Context, req PlaceCallRequest) (string, error)

	// UpdateCall modifies an in-progress call: new TwiML instructions,
	// mute toggling, or termination via Status "completed".
	UpdateCall(ctx context.Context, callSID string, upd CallUpdate) error

	// FetchCallStatus returns the provider's current status string for the
	// call ("queued", "ringing", "in-progress", "completed", ...).
	FetchCallStatus(ctx context.Context, callSID string) (string, error)

	// ListRecordings returns recordings the provider made for a call.
	ListRecordings(ctx context.Context, callSID string) ([]Recording, error)

	// Configured reports whether the adapter has credentials.
	Configured() bool
}

type PlaceCallRequest struct {
	To   string
	From string

	// AnswerURL serves the initial TwiML once the call connects.
	AnswerURL string

	// StatusCallbackURL receives initiated/ringing/answered/completed events.
	StatusCallbackURL string

	// RecordingCallbackURL, when set, asks the provider to record the call
	// and post the recording reference there once it is ready.
	RecordingCallbackURL string
}

// CallUpdate carries at most one kind of change. Zero-value fields are
// omitted from the provider request.
type CallUpdate struct {
	TwiML  string
	Muted  *bool
	Status string
}

type Recording struct {
	SID             string
	URL             string
	DurationSeconds int
}

// Provider status strings shared with webhook payloads.
const (
	StatusQueued     = "queued"
	StatusInitiated  = "initiated"
	StatusRinging    = "ringing"
	StatusInProgress = "in-progress"
	StatusAnswered   = "answered"
	StatusCompleted  = "completed"
	StatusBusy       = "busy"
	StatusFailed     = "failed"
	StatusNoAnswer   = "no-answer"
	StatusCanceled   = "canceled"
)

// TerminalStatus reports whether a provider status means the call is over.
func TerminalStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusBusy, StatusFailed, StatusNoAnswer, StatusCanceled:
		return true
	default:
		return false
	}
}
