package history

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("history: not found")

// Record is the durable row for one phone call, keyed by the telephony
// provider's call SID and owned by the user who placed it. It is written by
// the call orchestrator and read-only everywhere else.
type Record struct {
	CallSID     string    `json:"call_sid" db:"call_sid"`
	UserID      string    `json:"user_id" db:"user_id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	StartTime   time.Time `json:"start_time" db:"start_time"`

	// EndTime stays nil until the call reaches a terminal status.
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`

	VoiceModel  string  `json:"voice_model" db:"voice_model"`
	SpeechSpeed float64 `json:"speech_speed" db:"speech_speed"`
	Status      string  `json:"status" db:"status"`

	// Transcript is a JSON-serialized copy of the session transcript taken
	// at finalization.
	Transcript json.RawMessage `json:"transcript,omitempty" db:"transcript"`
	Summary    *string         `json:"summary,omitempty" db:"summary"`

	RecordingURL  *string `json:"recording_url,omitempty" db:"recording_url"`
	RecordingData []byte  `json:"-" db:"recording_data"`
}

// Finalization carries the fields written when a call ends. RecordingURL is
// optional; when set it is persisted atomically with the rest, so a failure
// cannot leave a finalized row without its recording.
type Finalization struct {
	Status          string
	EndTime         time.Time
	DurationSeconds int
	Transcript      json.RawMessage
	Summary         *string
	RecordingURL    string
}
