package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const evictInterval = time.Minute

// Store owns the live call sessions. All access goes through its methods
// under one mutex; callers get value snapshots, never pointers into the map.
//
// Status is monotonic: ringing -> connected -> ended, with any state able to
// jump straight to ended. EndTime is written exactly once, and transcript
// entries are append-only.
type Store struct {
	retention time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[string]*CallSession

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewStore(retention time.Duration, log *slog.Logger) *Store {
	if retention <= 0 {
		retention = 15 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		retention: retention,
		log:       log,
		sessions:  make(map[string]*CallSession),
		clock:     time.Now,
	}
}

// Create registers a new session in ringing state and stamps StartTime.
func (s *Store) Create(callSID, userID, phoneNumber, voice string, speed float64) CallSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &CallSession{
		CallSID:     callSID,
		UserID:      userID,
		PhoneNumber: phoneNumber,
		Voice:       voice,
		Speed:       speed,
		Status:      StatusRinging,
		StartTime:   s.clock(),
	}
	s.sessions[callSID] = sess
	return snapshot(sess)
}

// Get returns a snapshot of the session, or false if unknown.
func (s *Store) Get(callSID string) (CallSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[callSID]
	if !ok {
		return CallSession{}, false
	}
	return snapshot(sess), true
}

// MarkConnected moves a ringing session to connected. Ended sessions are
// left alone: the answer webhook can legitimately race termination.
func (s *Store) MarkConnected(callSID string) (CallSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[callSID]
	if !ok {
		return CallSession{}, false
	}
	if sess.Status == StatusRinging {
		sess.Status = StatusConnected
	}
	return snapshot(sess), true
}

// End moves the session to ended and stamps EndTime once. The second
// return reports whether this call performed the transition; finalization
// side effects must run only for the winner.
func (s *Store) End(callSID string) (CallSession, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[callSID]
	if !ok {
		return CallSession{}, false, false
	}
	if sess.Status == StatusEnded {
		return snapshot(sess), true, false
	}
	sess.Status = StatusEnded
	sess.EndTime = s.clock()
	if sess.EndTime.Before(sess.StartTime) {
		sess.EndTime = sess.StartTime
	}
	return snapshot(sess), true, true
}

// AppendTranscript stamps the entry's arrival time and adds it. Entries are
// never mutated or removed, and readers observe them in append order; the
// timestamps are assigned under the lock, so they are monotonic with it.
func (s *Store) AppendTranscript(callSID string, e TranscriptEntry) (TranscriptEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Timestamp = s.clock()
	sess, ok := s.sessions[callSID]
	if !ok {
		return e, false
	}
	sess.Transcript = append(sess.Transcript, e)
	return e, true
}

func (s *Store) SetMuted(callSID string, muted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[callSID]
	if !ok {
		return false
	}
	sess.Muted = muted
	return true
}

// Run evicts ended sessions after the retention window until ctx is
// canceled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(evictInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.evict()
		}
	}
}

func (s *Store) evict() int {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, sess := range s.sessions {
		if sess.Status == StatusEnded && now.Sub(sess.EndTime) > s.retention {
			delete(s.sessions, sid)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("evicted ended call sessions", "count", removed)
	}
	return removed
}

func snapshot(sess *CallSession) CallSession {
	out := *sess
	out.Transcript = append([]TranscriptEntry(nil), sess.Transcript...)
	return out
}
