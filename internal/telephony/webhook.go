package telephony

import (
	"net/http"
	"strings"
)

// Webhook form parsing. Twilio posts application/x-www-form-urlencoded.
// Keep it minimal and provider-adapter-only; no business logic here.

// StatusForm captures the subset of status-callback fields we care about.
type StatusForm struct {
	CallSID      string
	CallStatus   string
	CallDuration string
	From         string
	To           string
}

func ParseStatusForm(r *http.Request) (StatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusForm{}, err
	}
	return StatusForm{
		CallSID:      strings.TrimSpace(r.PostFormValue("CallSid")),
		CallStatus:   strings.TrimSpace(r.PostFormValue("CallStatus")),
		CallDuration: strings.TrimSpace(r.PostFormValue("CallDuration")),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
	}, nil
}

// GatherForm carries the recognized speech from a <Gather> action callback.
// SpeechResult is produced by the telephony network's own recognizer, not
// by our transcription adapter.
type GatherForm struct {
	CallSID      string
	SpeechResult string
	Confidence   string
}

func ParseGatherForm(r *http.Request) (GatherForm, error) {
	if err := r.ParseForm(); err != nil {
		return GatherForm{}, err
	}
	return GatherForm{
		CallSID:      strings.TrimSpace(r.PostFormValue("CallSid")),
		SpeechResult: strings.TrimSpace(r.PostFormValue("SpeechResult")),
		Confidence:   strings.TrimSpace(r.PostFormValue("Confidence")),
	}, nil
}

// RecordingForm is posted when a call recording becomes available.
type RecordingForm struct {
	CallSID         string
	RecordingSID    string
	RecordingURL    string
	RecordingStatus string
}

func ParseRecordingForm(r *http.Request) (RecordingForm, error) {
	if err := r.ParseForm(); err != nil {
		return RecordingForm{}, err
	}
	return RecordingForm{
		CallSID:         strings.TrimSpace(r.PostFormValue("CallSid")),
		RecordingSID:    strings.TrimSpace(r.PostFormValue("RecordingSid")),
		RecordingURL:    strings.TrimSpace(r.PostFormValue("RecordingUrl")),
		RecordingStatus: strings.TrimSpace(r.PostFormValue("RecordingStatus")),
	}, nil
}
