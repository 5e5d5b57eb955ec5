package session

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("session: call not found")
	ErrInvalidArgument = errors.New("session: invalid argument")
	ErrNotConfigured   = errors.New("session: adapter not configured")
	ErrCallNotActive   = errors.New("session: call not active")
	ErrTooManyCalls    = errors.New("session: too many active calls")
)

type Status string

const (
	StatusRinging   Status = "ringing"
	StatusConnected Status = "connected"
	StatusEnded     Status = "ended"
)

// TranscriptEntry is one utterance in a call. IsUser marks text the user
// typed (and had spoken to the far end); false means the far end said it.
type TranscriptEntry struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// CallSession is the live in-memory state of one phone call. Snapshots of
// it are handed out by the store; the canonical copy is only ever mutated
// under the store lock.
type CallSession struct {
	CallSID     string            `json:"call_sid"`
	UserID      string            `json:"user_id"`
	PhoneNumber string            `json:"phone_number"`
	Voice       string            `json:"voice"`
	Speed       float64           `json:"speed"`
	Status      Status            `json:"status"`
	Muted       bool              `json:"muted"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Transcript  []TranscriptEntry `json:"transcript"`
}

// Duration is the whole-second call length, valid once the call has ended.
func (s CallSession) Duration() int {
	if s.EndTime.IsZero() {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime) / time.Second)
}
