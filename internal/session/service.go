package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"unmute/internal/artifact"
	"unmute/internal/config"
	"unmute/internal/history"
	"unmute/internal/realtime"
	"unmute/internal/speech"
	"unmute/internal/telephony"
)

const (
	// gatherSpeechTimeout ends an utterance after this much silence.
	// Tuned for responsiveness over recognition completeness.
	gatherSpeechTimeout = "2"

	// keepAlivePause keeps the telephony channel open after each
	// directive so the call does not hang up between messages.
	keepAlivePause = 3600

	minSpeechSpeed = 0.25
	maxSpeechSpeed = 4.0
)

// Realtime event names pushed to browsers.
const (
	EventCallStatus    = "call_status"
	EventTranscription = "transcription"
	EventAudio         = "audio"
	EventCallEnded     = "call_ended"
	EventStreamStarted = "stream_started"
)

// Deps wires the orchestrator. Completer and Cap may be nil; Repo may be
// a memory repository when no database is configured.
type Deps struct {
	Store       *Store
	Provider    telephony.Provider
	Synthesizer speech.Synthesizer
	Transcriber speech.Transcriber
	Completer   speech.Completer
	Artifacts   *artifact.Store
	Hub         realtime.Publisher
	Repo        history.Repository
	Cap         *CallCap
	App         config.AppConfig
	FromNumber  string
	Log         *slog.Logger
}

// Service orchestrates call lifecycle: placement, speaking, webhooks, the
// live media stream and finalization into history.
type Service struct {
	store     *Store
	provider  telephony.Provider
	synth     speech.Synthesizer
	stt       speech.Transcriber
	completer speech.Completer
	artifacts *artifact.Store
	hub       realtime.Publisher
	repo      history.Repository
	cap       *CallCap
	app       config.AppConfig
	from      string
	log       *slog.Logger

	mu      sync.Mutex
	streams map[string]*mediaStream
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	hub := d.Hub
	if hub == nil {
		hub = realtime.NopPublisher{}
	}
	return &Service{
		store:     d.Store,
		provider:  d.Provider,
		synth:     d.Synthesizer,
		stt:       d.Transcriber,
		completer: d.Completer,
		artifacts: d.Artifacts,
		hub:       hub,
		repo:      d.Repo,
		cap:       d.Cap,
		app:       d.App,
		from:      d.FromNumber,
		log:       log,
		streams:   make(map[string]*mediaStream),
	}
}

// StartCall places an outbound call and registers a ringing session. Both
// the telephony and synthesis adapters must be configured up front: a call
// nobody can speak into is refused rather than placed.
func (s *Service) StartCall(ctx context.Context, userID, phoneNumber, voice string, speed float64) (CallSession, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return CallSession{}, fmt.Errorf("%w: phone number required", ErrInvalidArgument)
	}
	if voice == "" {
		voice = speech.RandomVoice()
	} else if !speech.ValidVoice(voice) {
		return CallSession{}, fmt.Errorf("%w: unknown voice %q", ErrInvalidArgument, voice)
	}
	if speed == 0 {
		speed = 1.0
	}
	if speed < minSpeechSpeed || speed > maxSpeechSpeed {
		return CallSession{}, fmt.Errorf("%w: speed out of range", ErrInvalidArgument)
	}
	if !s.provider.Configured() {
		return CallSession{}, fmt.Errorf("%w: telephony credentials missing", ErrNotConfigured)
	}
	if !s.synth.Configured() {
		return CallSession{}, fmt.Errorf("%w: synthesis credentials missing", ErrNotConfigured)
	}

	ok, err := s.cap.Acquire(ctx, userID)
	if err != nil {
		return CallSession{}, fmt.Errorf("call cap: %w", err)
	}
	if !ok {
		return CallSession{}, ErrTooManyCalls
	}

	callSID, err := s.provider.PlaceCall(ctx, telephony.PlaceCallRequest{
		To:                   phoneNumber,
		From:                 s.from,
		AnswerURL:            s.webhookURL("answer"),
		StatusCallbackURL:    s.webhookURL("status"),
		RecordingCallbackURL: s.webhookURL("recording"),
	})
	if err != nil {
		if rerr := s.cap.Release(ctx, userID); rerr != nil {
			s.log.Warn("call cap release failed", "user_id", userID, "err", rerr)
		}
		return CallSession{}, fmt.Errorf("place call: %w", err)
	}

	sess := s.store.Create(callSID, userID, phoneNumber, voice, speed)

	if err := s.repo.Create(ctx, history.Record{
		CallSID:     callSID,
		UserID:      userID,
		PhoneNumber: phoneNumber,
		StartTime:   sess.StartTime,
		VoiceModel:  voice,
		SpeechSpeed: speed,
		Status:      string(StatusRinging),
	}); err != nil {
		s.log.Error("history create failed", "call_sid", callSID, "err", err)
	}

	s.hub.Publish(EventCallStatus, statusPayload(sess))
	return sess, nil
}

// SpeakResult reports what was actually played, and whether the text went
// through cleanup or fell back to the original.
type SpeakResult struct {
	Text     string `json:"text"`
	Enhanced bool   `json:"enhanced"`
	Reason   string `json:"reason,omitempty"`
	AudioURL string `json:"audio_url"`
}

// Speak pushes typed text into the live call: best-effort cleanup,
// transcript append, synthesis, artifact publication, then a TwiML update
// that plays the audio and re-arms speech gathering.
//
// The provider's own live status is consulted before the transcript is
// touched and again right before the call is redirected, so a call that
// terminates mid-flight is refused instead of raced.
func (s *Service) Speak(ctx context.Context, userID, callSID, text string) (SpeakResult, error) {
	sess, err := s.owned(userID, callSID)
	if err != nil {
		return SpeakResult{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return SpeakResult{}, fmt.Errorf("%w: text required", ErrInvalidArgument)
	}
	if err := s.requireLive(ctx, callSID); err != nil {
		return SpeakResult{}, err
	}

	enh := speech.Reformat(ctx, s.completer, text)
	if !enh.Enhanced {
		s.log.Debug("speak text not enhanced", "call_sid", callSID, "reason", enh.Reason)
	}

	// Append before the slow synthesis round trip so that back-to-back
	// speaks land in the transcript in submission order.
	entry, ok := s.store.AppendTranscript(callSID, TranscriptEntry{Text: enh.Text, IsUser: true})
	if !ok {
		return SpeakResult{}, ErrNotFound
	}
	s.hub.Publish(EventTranscription, transcriptionPayload(callSID, entry, enh.Reason))

	audio, mimeType, err := s.synth.Synthesize(ctx, enh.Text, sess.Voice, sess.Speed)
	if err != nil {
		return SpeakResult{}, fmt.Errorf("synthesize: %w", err)
	}
	url, err := s.publishAudio(callSID, audio, mimeType)
	if err != nil {
		return SpeakResult{}, err
	}

	if err := s.requireLive(ctx, callSID); err != nil {
		return SpeakResult{}, err
	}
	twiml, err := telephony.Render(s.playAndGather(url)...)
	if err != nil {
		return SpeakResult{}, fmt.Errorf("render twiml: %w", err)
	}
	if err := s.provider.UpdateCall(ctx, callSID, telephony.CallUpdate{TwiML: twiml}); err != nil {
		return SpeakResult{}, fmt.Errorf("update call: %w", err)
	}

	return SpeakResult{Text: enh.Text, Enhanced: enh.Enhanced, Reason: enh.Reason, AudioURL: url}, nil
}

// SetMuted toggles the far end's ability to hear the user's microphone.
func (s *Service) SetMuted(ctx context.Context, userID, callSID string, muted bool) error {
	if _, err := s.owned(userID, callSID); err != nil {
		return err
	}
	if err := s.provider.UpdateCall(ctx, callSID, telephony.CallUpdate{Muted: &muted}); err != nil {
		return fmt.Errorf("update call: %w", err)
	}
	s.store.SetMuted(callSID, muted)
	return nil
}

// SendDigits plays DTMF tones into the call and re-arms gathering.
func (s *Service) SendDigits(ctx context.Context, userID, callSID, digits string) error {
	if _, err := s.owned(userID, callSID); err != nil {
		return err
	}
	if !validDigits(digits) {
		return fmt.Errorf("%w: digits must be 0-9, *, # or w", ErrInvalidArgument)
	}

	twiml, err := telephony.Render(append([]any{telephony.Play{Digits: digits}}, s.gatherVerbs()...)...)
	if err != nil {
		return fmt.Errorf("render twiml: %w", err)
	}
	if err := s.provider.UpdateCall(ctx, callSID, telephony.CallUpdate{TwiML: twiml}); err != nil {
		return fmt.Errorf("update call: %w", err)
	}
	return nil
}

// EndCall hangs up at the provider and finalizes the session.
func (s *Service) EndCall(ctx context.Context, userID, callSID string) error {
	sess, err := s.owned(userID, callSID)
	if err != nil {
		return err
	}
	if sess.Status != StatusEnded {
		if err := s.provider.UpdateCall(ctx, callSID, telephony.CallUpdate{Status: telephony.StatusCompleted}); err != nil {
			return fmt.Errorf("terminate call: %w", err)
		}
	}
	return s.end(ctx, callSID)
}

// Get returns the session snapshot for its owner.
func (s *Service) Get(userID, callSID string) (CallSession, error) {
	return s.owned(userID, callSID)
}

// HandleAnswer serves the initial call instructions: fork the media stream,
// then listen for speech.
func (s *Service) HandleAnswer(_ context.Context, callSID string) (string, error) {
	sess, ok := s.store.MarkConnected(callSID)
	if !ok {
		return telephony.Render(telephony.Hangup{})
	}
	s.hub.Publish(EventCallStatus, statusPayload(sess))

	verbs := []any{telephony.Start{Stream: &telephony.Stream{URL: s.app.StreamURL()}}}
	return telephony.Render(append(verbs, s.gatherVerbs()...)...)
}

// HandleStatus applies a provider status callback. Terminal statuses all
// collapse to ended; the answered event connects a ringing session.
func (s *Service) HandleStatus(ctx context.Context, form telephony.StatusForm) error {
	if form.CallSID == "" {
		return fmt.Errorf("%w: CallSid required", ErrInvalidArgument)
	}
	switch {
	case telephony.TerminalStatus(form.CallStatus):
		return s.end(ctx, form.CallSID)
	case form.CallStatus == telephony.StatusAnswered || form.CallStatus == telephony.StatusInProgress:
		if sess, ok := s.store.MarkConnected(form.CallSID); ok {
			s.hub.Publish(EventCallStatus, statusPayload(sess))
		}
		return nil
	default:
		return nil
	}
}

// HandleGather processes speech the telephony network recognized on the
// call. The formatted text is appended to the transcript, then spoken back
// to the call as confirmation of what was understood, using the session's
// voice. Every branch re-arms the gather so the call never goes silent.
func (s *Service) HandleGather(ctx context.Context, form telephony.GatherForm) (string, error) {
	sess, ok := s.store.Get(form.CallSID)
	if !ok {
		return telephony.Render(telephony.Hangup{})
	}

	formatted := speech.FormatUtterance(form.SpeechResult)
	if formatted == "" {
		return telephony.Render(s.gatherVerbs()...)
	}

	entry, _ := s.store.AppendTranscript(form.CallSID, TranscriptEntry{Text: formatted, IsUser: false})
	s.hub.Publish(EventTranscription, transcriptionPayload(form.CallSID, entry, ""))

	audio, mimeType, err := s.synth.Synthesize(ctx, formatted, sess.Voice, sess.Speed)
	if err != nil {
		s.log.Warn("gather echo synthesis failed", "call_sid", form.CallSID, "err", err)
		return telephony.Render(s.gatherVerbs()...)
	}
	url, err := s.publishAudio(form.CallSID, audio, mimeType)
	if err != nil {
		s.log.Warn("gather echo publish failed", "call_sid", form.CallSID, "err", err)
		return telephony.Render(s.gatherVerbs()...)
	}
	return telephony.Render(s.playAndGather(url)...)
}

// HandleRecording attaches a provider recording URL to the history row.
func (s *Service) HandleRecording(ctx context.Context, form telephony.RecordingForm) error {
	if form.CallSID == "" {
		return fmt.Errorf("%w: CallSid required", ErrInvalidArgument)
	}
	if form.RecordingURL == "" {
		return nil
	}
	if err := s.repo.AttachRecording(ctx, form.CallSID, form.RecordingURL, nil); err != nil {
		return fmt.Errorf("attach recording: %w", err)
	}
	return nil
}

// end transitions the session and runs finalization exactly once.
func (s *Service) end(ctx context.Context, callSID string) error {
	snap, ok, didEnd := s.store.End(callSID)
	if !ok {
		return ErrNotFound
	}
	if !didEnd {
		return nil
	}
	s.finalize(ctx, snap)
	return nil
}

// finalize computes duration, generates a best-effort summary, persists the
// history row and announces the end. Runs for the transition winner only.
func (s *Service) finalize(ctx context.Context, snap CallSession) {
	var summary *string
	if len(snap.Transcript) > 0 && s.completer != nil {
		out, err := speech.Summarize(ctx, s.completer, roleTaggedScript(snap.Transcript))
		if err != nil {
			s.log.Warn("call summary failed", "call_sid", snap.CallSID, "err", err)
		} else if out != "" {
			summary = &out
		}
	}

	transcript, err := json.Marshal(snap.Transcript)
	if err != nil {
		s.log.Error("transcript marshal failed", "call_sid", snap.CallSID, "err", err)
		transcript = nil
	}

	var recordingURL string
	if recs, err := s.provider.ListRecordings(ctx, snap.CallSID); err != nil {
		s.log.Warn("list recordings failed", "call_sid", snap.CallSID, "err", err)
	} else if len(recs) > 0 {
		recordingURL = recs[0].URL
	}

	if err := s.repo.Finalize(ctx, snap.CallSID, history.Finalization{
		Status:          string(StatusEnded),
		EndTime:         snap.EndTime,
		DurationSeconds: snap.Duration(),
		Transcript:      transcript,
		Summary:         summary,
		RecordingURL:    recordingURL,
	}); err != nil {
		s.log.Error("history finalize failed", "call_sid", snap.CallSID, "err", err)
	}

	if err := s.cap.Release(ctx, snap.UserID); err != nil {
		s.log.Warn("call cap release failed", "user_id", snap.UserID, "err", err)
	}

	payload := map[string]any{
		"callSid":  snap.CallSID,
		"duration": snap.Duration(),
	}
	if summary != nil {
		payload["summary"] = *summary
	}
	s.hub.Publish(EventCallEnded, payload)
}

func (s *Service) owned(userID, callSID string) (CallSession, error) {
	sess, ok := s.store.Get(callSID)
	if !ok || sess.UserID != userID {
		return CallSession{}, ErrNotFound
	}
	return sess, nil
}

// requireLive refuses to act on a call the provider no longer reports as
// in progress, even when the local session still says connected.
func (s *Service) requireLive(ctx context.Context, callSID string) error {
	live, err := s.provider.FetchCallStatus(ctx, callSID)
	if err != nil {
		return fmt.Errorf("fetch call status: %w", err)
	}
	if live != telephony.StatusInProgress {
		return fmt.Errorf("%w: provider reports %q", ErrCallNotActive, live)
	}
	return nil
}

// publishAudio stores encoded audio as an ephemeral artifact and announces
// its URL so the browser can play it too.
func (s *Service) publishAudio(callSID string, audio []byte, mimeType string) (string, error) {
	id, err := s.artifacts.Put(audio, mimeType)
	if err != nil {
		return "", fmt.Errorf("store audio: %w", err)
	}
	url := s.app.PublicBaseURL + "/audio/" + id
	s.hub.Publish(EventAudio, map[string]any{"callSid": callSID, "url": url})
	return url, nil
}

func (s *Service) gatherVerbs() []any {
	return []any{
		telephony.Gather{
			Input:         "speech",
			Action:        s.webhookURL("gather"),
			Method:        "POST",
			SpeechTimeout: gatherSpeechTimeout,
		},
		telephony.Pause{Length: keepAlivePause},
	}
}

func (s *Service) playAndGather(url string) []any {
	return append([]any{telephony.Play{URL: url}}, s.gatherVerbs()...)
}

func (s *Service) webhookURL(name string) string {
	return s.app.PublicBaseURL + "/webhooks/twilio/" + name
}

func statusPayload(sess CallSession) map[string]any {
	return map[string]any{
		"callSid": sess.CallSID,
		"status":  string(sess.Status),
		"muted":   sess.Muted,
	}
}

func transcriptionPayload(callSID string, e TranscriptEntry, fallbackReason string) map[string]any {
	p := map[string]any{
		"callSid":   callSID,
		"text":      e.Text,
		"isUser":    e.IsUser,
		"timestamp": e.Timestamp,
	}
	if fallbackReason != "" {
		p["fallbackReason"] = fallbackReason
	}
	return p
}

func roleTaggedScript(entries []TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.IsUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Caller: ")
		}
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func validDigits(digits string) bool {
	if digits == "" {
		return false
	}
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
		case r == '*' || r == '#' || r == 'w':
		default:
			return false
		}
	}
	return true
}
