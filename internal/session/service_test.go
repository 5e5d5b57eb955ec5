package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"unmute/internal/artifact"
	"unmute/internal/config"
	"unmute/internal/history"
	"unmute/internal/speech"
	"unmute/internal/telephony"
)

// --- fakes ---

type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	placeSID   string
	placeErr   error
	liveStatus string
	fetchCalls int
	updates    []telephony.CallUpdate
	updateErr  error
	recordings []telephony.Recording
	listCalls  int
}

func (f *fakeProvider) PlaceCall(_ context.Context, req telephony.PlaceCallRequest) (string, error) {
	if f.placeErr != nil {
		return "", f.placeErr
	}
	return f.placeSID, nil
}

func (f *fakeProvider) UpdateCall(_ context.Context, _ string, upd telephony.CallUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, upd)
	return nil
}

func (f *fakeProvider) FetchCallStatus(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return f.liveStatus, nil
}

func (f *fakeProvider) ListRecordings(_ context.Context, _ string) ([]telephony.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.recordings, nil
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) lastUpdate(t *testing.T) telephony.CallUpdate {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		t.Fatal("no call updates recorded")
	}
	return f.updates[len(f.updates)-1]
}

type fakeSynth struct {
	mu         sync.Mutex
	configured bool
	err        error
	calls      []string

	// gate blocks Synthesize for the given text until closed; started is
	// signaled when such a call begins.
	gate    map[string]chan struct{}
	started chan string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, voice string, speed float64) ([]byte, string, error) {
	f.mu.Lock()
	gate := f.gate[text]
	f.mu.Unlock()
	if gate != nil {
		if f.started != nil {
			f.started <- text
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	f.calls = append(f.calls, text)
	return []byte("audio:" + text), "audio/mpeg", nil
}

func (f *fakeSynth) Configured() bool { return f.configured }

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTranscriber struct {
	mu    sync.Mutex
	texts []string
	calls int
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	i := f.calls
	f.calls++
	if i < len(f.texts) {
		return f.texts[i], nil
	}
	return "", nil
}

type fakeCompleter struct {
	mu    sync.Mutex
	err   error
	calls [][]speech.Message
}

func (f *fakeCompleter) Complete(_ context.Context, msgs []speech.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msgs)
	if f.err != nil {
		return "", f.err
	}
	if strings.HasPrefix(msgs[0].Content, "Summarize") {
		return "They talked briefly.", nil
	}
	// Pretend-cleanup: uppercase nothing, just echo with a marker so tests
	// can tell enhancement happened.
	return "[clean] " + msgs[1].Content, nil
}

func (f *fakeCompleter) summaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, msgs := range f.calls {
		if strings.HasPrefix(msgs[0].Content, "Summarize") {
			n++
		}
	}
	return n
}

type capturedEvent struct {
	Event string
	Data  any
}

type captureHub struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (h *captureHub) Publish(event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, capturedEvent{Event: event, Data: data})
}

func (h *captureHub) count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Event == name {
			n++
		}
	}
	return n
}

// --- harness ---

type testEnv struct {
	svc       *Service
	store     *Store
	provider  *fakeProvider
	synth     *fakeSynth
	stt       *fakeTranscriber
	completer *fakeCompleter
	hub       *captureHub
	repo      *history.MemoryRepository
	now       *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := NewStore(15*time.Minute, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	artifacts, err := artifact.NewStore(t.TempDir(), time.Minute, nil)
	if err != nil {
		t.Fatalf("artifact store: %v", err)
	}

	env := &testEnv{
		store:     store,
		provider:  &fakeProvider{configured: true, placeSID: "CA1", liveStatus: telephony.StatusInProgress},
		synth:     &fakeSynth{configured: true},
		stt:       &fakeTranscriber{},
		completer: &fakeCompleter{},
		hub:       &captureHub{},
		repo:      history.NewMemoryRepository(),
		now:       &now,
	}
	env.svc = NewService(Deps{
		Store:       store,
		Provider:    env.provider,
		Synthesizer: env.synth,
		Transcriber: env.stt,
		Completer:   env.completer,
		Artifacts:   artifacts,
		Hub:         env.hub,
		Repo:        env.repo,
		App:         config.AppConfig{Env: "test", Port: 8080, PublicBaseURL: "https://unmute.test"},
		FromNumber:  "+15550001111",
	})
	return env
}

func (env *testEnv) startCall(t *testing.T) CallSession {
	t.Helper()
	sess, err := env.svc.StartCall(context.Background(), "user-1", "+15551234567", "nova", 1.0)
	if err != nil {
		t.Fatalf("start call: %v", err)
	}
	return sess
}

// --- tests ---

func TestStartCall(t *testing.T) {
	env := newTestEnv(t)

	sess := env.startCall(t)
	if sess.CallSID != "CA1" || sess.Status != StatusRinging {
		t.Fatalf("unexpected session %+v", sess)
	}
	if sess.StartTime.IsZero() {
		t.Fatal("expected start time set")
	}

	rec, err := env.repo.Get(context.Background(), "user-1", "CA1")
	if err != nil {
		t.Fatalf("expected history row: %v", err)
	}
	if rec.Status != "ringing" || rec.VoiceModel != "nova" {
		t.Fatalf("unexpected history row %+v", rec)
	}
	if env.hub.count(EventCallStatus) != 1 {
		t.Fatal("expected ringing status published")
	}
}

func TestStartCallValidation(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		voice   string
		speed   float64
		prep    func(*testEnv)
		wantErr error
	}{
		{name: "missing phone", phone: "", voice: "nova", speed: 1.0, wantErr: ErrInvalidArgument},
		{name: "unknown voice", phone: "+15551234567", voice: "darth", speed: 1.0, wantErr: ErrInvalidArgument},
		{name: "speed out of range", phone: "+15551234567", voice: "nova", speed: 9.0, wantErr: ErrInvalidArgument},
		{
			name: "telephony unconfigured", phone: "+15551234567", voice: "nova", speed: 1.0,
			prep:    func(e *testEnv) { e.provider.configured = false },
			wantErr: ErrNotConfigured,
		},
		{
			name: "synthesis unconfigured", phone: "+15551234567", voice: "nova", speed: 1.0,
			prep:    func(e *testEnv) { e.synth.configured = false },
			wantErr: ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.prep != nil {
				tt.prep(env)
			}
			_, err := env.svc.StartCall(context.Background(), "user-1", tt.phone, tt.voice, tt.speed)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if _, ok := env.store.Get("CA1"); ok {
				t.Fatal("expected no session created")
			}
		})
	}
}

func TestStartCallRandomVoiceWhenUnset(t *testing.T) {
	env := newTestEnv(t)
	sess, err := env.svc.StartCall(context.Background(), "user-1", "+15551234567", "", 0)
	if err != nil {
		t.Fatalf("start call: %v", err)
	}
	if !speech.ValidVoice(sess.Voice) {
		t.Fatalf("expected a known voice, got %q", sess.Voice)
	}
	if sess.Speed != 1.0 {
		t.Fatalf("expected default speed, got %v", sess.Speed)
	}
}

func TestSpeak(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	res, err := env.svc.Speak(context.Background(), "user-1", "CA1", "hello out there")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if !res.Enhanced || res.Text != "[clean] hello out there" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(res.AudioURL, "https://unmute.test/audio/") {
		t.Fatalf("unexpected audio url %q", res.AudioURL)
	}

	snap, _ := env.store.Get("CA1")
	if len(snap.Transcript) != 1 || !snap.Transcript[0].IsUser {
		t.Fatalf("unexpected transcript %+v", snap.Transcript)
	}

	upd := env.provider.lastUpdate(t)
	if !strings.Contains(upd.TwiML, "<Play>"+res.AudioURL+"</Play>") {
		t.Fatalf("expected play verb in twiml: %s", upd.TwiML)
	}
	if !strings.Contains(upd.TwiML, `input="speech"`) || !strings.Contains(upd.TwiML, `speechTimeout="2"`) {
		t.Fatalf("expected gather re-armed: %s", upd.TwiML)
	}
	if env.provider.fetchCalls != 2 {
		t.Fatalf("expected live status checked twice, got %d", env.provider.fetchCalls)
	}
}

func TestSpeakRefusedWhenNotLive(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)
	env.provider.liveStatus = telephony.StatusCompleted

	_, err := env.svc.Speak(context.Background(), "user-1", "CA1", "thank you for calling")
	if !errors.Is(err, ErrCallNotActive) {
		t.Fatalf("expected ErrCallNotActive, got %v", err)
	}

	snap, _ := env.store.Get("CA1")
	if len(snap.Transcript) != 0 {
		t.Fatal("expected no transcript mutation")
	}
	if env.synth.callCount() != 0 {
		t.Fatal("expected no synthesis call")
	}
}

func TestSpeakFallsBackWhenCompleterFails(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)
	env.completer.err = errors.New("vendor down")

	res, err := env.svc.Speak(context.Background(), "user-1", "CA1", "hello")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if res.Enhanced || res.Text != "hello" || res.Reason == "" {
		t.Fatalf("expected tagged fallback, got %+v", res)
	}
}

func TestSpeakValidation(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	if _, err := env.svc.Speak(context.Background(), "user-1", "CA1", "  "); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := env.svc.Speak(context.Background(), "user-1", "CA9", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.Speak(context.Background(), "user-2", "CA1", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestSpeakOrderingUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	// The first speak blocks inside synthesis; the second completes while
	// it is stuck. Transcript order must follow submission order anyway.
	gate := make(chan struct{})
	env.synth.gate = map[string]chan struct{}{"[clean] first": gate}
	env.synth.started = make(chan string, 1)

	done := make(chan error, 2)
	go func() {
		_, err := env.svc.Speak(context.Background(), "user-1", "CA1", "first")
		done <- err
	}()
	<-env.synth.started

	go func() {
		_, err := env.svc.Speak(context.Background(), "user-1", "CA1", "second")
		done <- err
	}()
	if err := <-done; err != nil {
		t.Fatalf("second speak: %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first speak: %v", err)
	}

	snap, _ := env.store.Get("CA1")
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.Transcript))
	}
	if snap.Transcript[0].Text != "[clean] first" || snap.Transcript[1].Text != "[clean] second" {
		t.Fatalf("expected submission order, got %+v", snap.Transcript)
	}
}

func TestSetMuted(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	if err := env.svc.SetMuted(context.Background(), "user-1", "CA1", true); err != nil {
		t.Fatalf("mute: %v", err)
	}
	upd := env.provider.lastUpdate(t)
	if upd.Muted == nil || !*upd.Muted {
		t.Fatalf("expected muted update, got %+v", upd)
	}
	snap, _ := env.store.Get("CA1")
	if !snap.Muted {
		t.Fatal("expected session marked muted")
	}
}

func TestSendDigits(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	if err := env.svc.SendDigits(context.Background(), "user-1", "CA1", "1w2#"); err != nil {
		t.Fatalf("digits: %v", err)
	}
	upd := env.provider.lastUpdate(t)
	if !strings.Contains(upd.TwiML, `digits="1w2#"`) {
		t.Fatalf("expected dtmf play verb: %s", upd.TwiML)
	}

	if err := env.svc.SendDigits(context.Background(), "user-1", "CA1", "abc"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestHandleAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	twiml, err := env.svc.HandleAnswer(context.Background(), "CA1")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !strings.Contains(twiml, `<Stream url="wss://unmute.test/webhooks/twilio/media"`) {
		t.Fatalf("expected media stream fork: %s", twiml)
	}
	if !strings.Contains(twiml, `input="speech"`) {
		t.Fatalf("expected gather: %s", twiml)
	}

	snap, _ := env.store.Get("CA1")
	if snap.Status != StatusConnected {
		t.Fatalf("expected connected, got %s", snap.Status)
	}
}

func TestHandleAnswerUnknownCallHangsUp(t *testing.T) {
	env := newTestEnv(t)
	twiml, err := env.svc.HandleAnswer(context.Background(), "CA9")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !strings.Contains(twiml, "<Hangup") {
		t.Fatalf("expected hangup: %s", twiml)
	}
}

func TestHandleGatherEcho(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)
	env.svc.HandleAnswer(context.Background(), "CA1")

	twiml, err := env.svc.HandleGather(context.Background(), telephony.GatherForm{
		CallSID:      "CA1",
		SpeechResult: "hello there",
	})
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	snap, _ := env.store.Get("CA1")
	if len(snap.Transcript) != 1 {
		t.Fatalf("expected one entry, got %d", len(snap.Transcript))
	}
	if snap.Transcript[0].Text != "Hello there." || snap.Transcript[0].IsUser {
		t.Fatalf("unexpected entry %+v", snap.Transcript[0])
	}

	// The recognized text is spoken back to the call with the session voice.
	if env.synth.callCount() != 1 || env.synth.calls[0] != "Hello there." {
		t.Fatalf("expected echo synthesis of recognized text, got %v", env.synth.calls)
	}
	if !strings.Contains(twiml, "<Play>") || !strings.Contains(twiml, `input="speech"`) {
		t.Fatalf("expected play + re-armed gather: %s", twiml)
	}
}

func TestHandleGatherBranchesReArm(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	// Empty recognition keeps listening.
	twiml, err := env.svc.HandleGather(context.Background(), telephony.GatherForm{CallSID: "CA1"})
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if !strings.Contains(twiml, `input="speech"`) || strings.Contains(twiml, "<Play>") {
		t.Fatalf("expected bare re-arm: %s", twiml)
	}

	// Synthesis failure still re-arms instead of dropping the call.
	env.synth.err = errors.New("vendor down")
	twiml, err = env.svc.HandleGather(context.Background(), telephony.GatherForm{CallSID: "CA1", SpeechResult: "hi"})
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if !strings.Contains(twiml, `input="speech"`) || strings.Contains(twiml, "<Play>") {
		t.Fatalf("expected re-arm without audio: %s", twiml)
	}

	// Unknown call hangs up.
	twiml, err = env.svc.HandleGather(context.Background(), telephony.GatherForm{CallSID: "CA9", SpeechResult: "hi"})
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if !strings.Contains(twiml, "<Hangup") {
		t.Fatalf("expected hangup: %s", twiml)
	}
}

func TestEndCallFinalizes(t *testing.T) {
	env := newTestEnv(t)
	env.provider.recordings = []telephony.Recording{{SID: "RE1", URL: "https://api.twilio.test/rec/RE1"}}
	env.startCall(t)
	env.svc.HandleAnswer(context.Background(), "CA1")
	env.svc.Speak(context.Background(), "user-1", "CA1", "hello")
	*env.now = env.now.Add(30 * time.Second)

	if err := env.svc.EndCall(context.Background(), "user-1", "CA1"); err != nil {
		t.Fatalf("end call: %v", err)
	}

	upd := env.provider.lastUpdate(t)
	if upd.Status != telephony.StatusCompleted {
		t.Fatalf("expected terminate update, got %+v", upd)
	}

	rec, err := env.repo.Get(context.Background(), "user-1", "CA1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if rec.Status != "ended" || rec.DurationSeconds != 30 {
		t.Fatalf("unexpected finalized row %+v", rec)
	}
	if rec.Summary == nil || *rec.Summary != "They talked briefly." {
		t.Fatalf("expected summary, got %v", rec.Summary)
	}
	if len(rec.Transcript) == 0 {
		t.Fatal("expected transcript persisted")
	}
	if rec.RecordingURL == nil || *rec.RecordingURL != "https://api.twilio.test/rec/RE1" {
		t.Fatalf("expected provider recording attached at finalize, got %v", rec.RecordingURL)
	}
	if env.hub.count(EventCallEnded) != 1 {
		t.Fatal("expected ended event published")
	}
}

func TestSummarySkippedWhenTranscriptEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	if err := env.svc.HandleStatus(context.Background(), telephony.StatusForm{
		CallSID:    "CA1",
		CallStatus: telephony.StatusCompleted,
	}); err != nil {
		t.Fatalf("status: %v", err)
	}

	if n := env.completer.summaryCalls(); n != 0 {
		t.Fatalf("expected no summarization, got %d calls", n)
	}
	rec, _ := env.repo.Get(context.Background(), "user-1", "CA1")
	if rec.Summary != nil {
		t.Fatalf("expected null summary, got %v", *rec.Summary)
	}
}

func TestSummaryExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)
	env.svc.HandleAnswer(context.Background(), "CA1")
	env.svc.HandleGather(context.Background(), telephony.GatherForm{CallSID: "CA1", SpeechResult: "hello there"})

	// The user hangs up and the provider's terminal callback races in
	// right after; finalization must run once.
	if err := env.svc.EndCall(context.Background(), "user-1", "CA1"); err != nil {
		t.Fatalf("end call: %v", err)
	}
	if err := env.svc.HandleStatus(context.Background(), telephony.StatusForm{
		CallSID:    "CA1",
		CallStatus: telephony.StatusCompleted,
	}); err != nil {
		t.Fatalf("status: %v", err)
	}

	if n := env.completer.summaryCalls(); n != 1 {
		t.Fatalf("expected exactly one summarization, got %d", n)
	}
	if env.hub.count(EventCallEnded) != 1 {
		t.Fatalf("expected one ended event, got %d", env.hub.count(EventCallEnded))
	}

	// The summary prompt carried the full role-tagged transcript.
	var script string
	for _, msgs := range env.completer.calls {
		if strings.HasPrefix(msgs[0].Content, "Summarize") {
			script = msgs[1].Content
		}
	}
	if !strings.Contains(script, "Caller: Hello there.") {
		t.Fatalf("unexpected summary script %q", script)
	}
}

func TestScenarioFullCall(t *testing.T) {
	env := newTestEnv(t)

	sess, err := env.svc.StartCall(context.Background(), "user-1", "+15551234567", "nova", 1.0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Status != StatusRinging {
		t.Fatalf("expected ringing, got %s", sess.Status)
	}

	if err := env.svc.HandleStatus(context.Background(), telephony.StatusForm{
		CallSID:    "CA1",
		CallStatus: telephony.StatusAnswered,
	}); err != nil {
		t.Fatalf("answered: %v", err)
	}
	snap, _ := env.store.Get("CA1")
	if snap.Status != StatusConnected {
		t.Fatalf("expected connected, got %s", snap.Status)
	}

	if _, err := env.svc.HandleGather(context.Background(), telephony.GatherForm{
		CallSID:      "CA1",
		SpeechResult: "hello there",
	}); err != nil {
		t.Fatalf("gather: %v", err)
	}
	snap, _ = env.store.Get("CA1")
	if len(snap.Transcript) != 1 || snap.Transcript[0].Text != "Hello there." || snap.Transcript[0].IsUser {
		t.Fatalf("unexpected transcript %+v", snap.Transcript)
	}

	*env.now = env.now.Add(65 * time.Second)
	if err := env.svc.HandleStatus(context.Background(), telephony.StatusForm{
		CallSID:    "CA1",
		CallStatus: telephony.StatusCompleted,
	}); err != nil {
		t.Fatalf("completed: %v", err)
	}

	snap, _ = env.store.Get("CA1")
	if snap.Status != StatusEnded || snap.EndTime.IsZero() || snap.Duration() != 65 {
		t.Fatalf("unexpected ended session %+v", snap)
	}

	rec, err := env.repo.Get(context.Background(), "user-1", "CA1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if rec.DurationSeconds != 65 || !strings.Contains(string(rec.Transcript), "Hello there.") {
		t.Fatalf("unexpected history row %+v", rec)
	}
}

func TestHandleRecording(t *testing.T) {
	env := newTestEnv(t)
	env.startCall(t)

	if err := env.svc.HandleRecording(context.Background(), telephony.RecordingForm{
		CallSID:      "CA1",
		RecordingURL: "https://api.twilio.test/rec/RE1",
	}); err != nil {
		t.Fatalf("recording: %v", err)
	}
	rec, _ := env.repo.Get(context.Background(), "user-1", "CA1")
	if rec.RecordingURL == nil || *rec.RecordingURL != "https://api.twilio.test/rec/RE1" {
		t.Fatalf("unexpected recording url %v", rec.RecordingURL)
	}
}
