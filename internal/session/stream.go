package session

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"unmute/internal/speech"
	"unmute/internal/telephony"
	"unmute/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// mediaBatchSize chunks (~0.375s of 8kHz PCM16) are transcribed
	// together; smaller batches give the recognizer too little signal.
	mediaBatchSize = 3

	// rollingContextMax caps the local transcription context buffer.
	rollingContextMax = 500

	// echoSpeed is the fixed, slightly slowed rate for re-synthesized
	// far-end speech.
	echoSpeed = 0.9
)

// mediaStream is the per-connection state of one live audio stream.
// All fields are touched only from the connection's read loop, so batches
// are processed strictly in arrival order with no extra locking.
type mediaStream struct {
	callSID   string
	streamSID string
	voice     string

	chunks [][]byte // everything received, for the durable recording
	batch  [][]byte // pending chunks awaiting transcription

	// context holds the most recent transcribed text. Local only.
	context string
}

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	// The telephony provider connects from its own infrastructure.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler accepts the provider's media-stream connection and runs the
// continuous transcription pipeline over it.
func (s *Service) StreamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.FromGin(c).Warn("media stream upgrade failed", "err", err)
			return
		}
		defer conn.Close()
		s.streamLoop(c.Request.Context(), conn, logger.FromGin(c))
	}
}

func (s *Service) streamLoop(ctx context.Context, conn *websocket.Conn, log *slog.Logger) {
	var ms *mediaStream
	defer func() {
		// A dropped socket without a stop frame still finalizes the
		// recording.
		if ms != nil {
			s.closeStream(ctx, ms, log)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		frame, err := telephony.ParseStreamFrame(data)
		if err != nil {
			log.Warn("bad media stream frame", "err", err)
			continue
		}

		switch frame.Event {
		case telephony.StreamEventConnected:
			log.Debug("media stream connected")

		case telephony.StreamEventStart:
			if frame.Start == nil {
				continue
			}
			started, ok := s.startStream(frame.Start)
			if !ok {
				log.Warn("duplicate media stream rejected", "call_sid", frame.Start.CallSID)
				return
			}
			ms = started
			log.Info("media stream started", "call_sid", ms.callSID, "stream_sid", ms.streamSID)

		case telephony.StreamEventMedia:
			if ms == nil || frame.Media == nil {
				continue
			}
			payload, err := base64.StdEncoding.DecodeString(frame.Media.Payload)
			if err != nil {
				log.Warn("bad media payload", "call_sid", ms.callSID, "err", err)
				continue
			}
			ms.chunks = append(ms.chunks, payload)
			ms.batch = append(ms.batch, payload)
			if len(ms.batch) >= mediaBatchSize {
				s.processBatch(ctx, ms, log)
			}

		case telephony.StreamEventStop:
			if ms != nil {
				s.closeStream(ctx, ms, log)
				ms = nil
			}
			return
		}
	}
}

// startStream allocates stream state keyed by call SID, refusing a second
// concurrent stream for the same call. The voice is pinned for the whole
// stream: the session's configured voice when the call is known, a random
// one otherwise.
func (s *Service) startStream(start *telephony.StreamStart) (*mediaStream, bool) {
	voice := speech.RandomVoice()
	if sess, ok := s.store.Get(start.CallSID); ok {
		voice = sess.Voice
	}

	ms := &mediaStream{
		callSID:   start.CallSID,
		streamSID: start.StreamSID,
		voice:     voice,
	}

	s.mu.Lock()
	if _, exists := s.streams[start.CallSID]; exists {
		s.mu.Unlock()
		return nil, false
	}
	s.streams[start.CallSID] = ms
	s.mu.Unlock()

	s.hub.Publish(EventStreamStarted, map[string]any{"callSid": start.CallSID})
	return ms, true
}

// processBatch transcribes one batch of raw audio and pushes the result
// through the enhancement pipeline. Each stage falls back to the previous
// stage's output on failure; the transcript always advances once the
// recognizer produced text.
func (s *Service) processBatch(ctx context.Context, ms *mediaStream, log *slog.Logger) {
	pcm := concat(ms.batch)
	ms.batch = ms.batch[:0]

	wav := speech.WrapPCM(pcm, speech.PCMSampleRate, speech.PCMChannels)
	text, err := s.stt.Transcribe(ctx, wav)
	if err != nil {
		log.Warn("stream transcription failed", "call_sid", ms.callSID, "err", err)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	ms.context = clampTail(ms.context+" "+text, rollingContextMax)

	entry, _ := s.store.AppendTranscript(ms.callSID, TranscriptEntry{Text: text, IsUser: false})

	enh := speech.Reformat(ctx, s.completer, text)
	entry.Text = enh.Text
	s.hub.Publish(EventTranscription, transcriptionPayload(ms.callSID, entry, enh.Reason))

	audio, mimeType, err := s.synth.Synthesize(ctx, enh.Text, ms.voice, echoSpeed)
	if err != nil {
		log.Warn("stream re-synthesis failed", "call_sid", ms.callSID, "err", err)
		return
	}
	if _, err := s.publishAudio(ms.callSID, audio, mimeType); err != nil {
		log.Warn("stream audio publish failed", "call_sid", ms.callSID, "err", err)
	}
}

// closeStream persists everything heard on the stream as the durable call
// recording and drops the stream state.
func (s *Service) closeStream(ctx context.Context, ms *mediaStream, log *slog.Logger) {
	s.mu.Lock()
	delete(s.streams, ms.callSID)
	s.mu.Unlock()

	if len(ms.chunks) == 0 {
		return
	}
	wav := speech.WrapPCM(concat(ms.chunks), speech.PCMSampleRate, speech.PCMChannels)
	if err := s.repo.AttachRecording(ctx, ms.callSID, "", wav); err != nil {
		log.Warn("recording persist failed", "call_sid", ms.callSID, "err", err)
	}
	log.Info("media stream closed", "call_sid", ms.callSID, "bytes", len(wav))
}

func concat(chunks [][]byte) []byte {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func clampTail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
