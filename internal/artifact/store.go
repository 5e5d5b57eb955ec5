package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("artifact: not found")

const (
	// unservedMaxAge bounds how long an artifact that was generated but
	// never fetched stays on disk before the janitor reaps it.
	unservedMaxAge = 5 * time.Minute

	sweepInterval = 5 * time.Second
)

// Store holds short-lived generated audio files and serves them through a
// single parameterized route. An artifact is scheduled for deletion a fixed
// delay after it is first served; a request after that window gets a 404.
type Store struct {
	dir string
	ttl time.Duration
	log *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

type entry struct {
	path     string
	mimeType string
	created  time.Time

	// expiresAt stays zero until the artifact is first served.
	expiresAt time.Time
}

func NewStore(dir string, ttl time.Duration, log *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "unmute-audio")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create dir: %w", err)
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:     dir,
		ttl:     ttl,
		log:     log,
		entries: make(map[string]*entry),
		clock:   time.Now,
	}, nil
}

// Put writes audio to disk and registers it for serving. The returned id is
// the path parameter of the serving route.
func (s *Store) Put(data []byte, mimeType string) (string, error) {
	now := s.clock()
	id := fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString())
	path := filepath.Join(s.dir, id+extFor(mimeType))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write: %w", err)
	}

	s.mu.Lock()
	s.entries[id] = &entry{path: path, mimeType: mimeType, created: now}
	s.mu.Unlock()
	return id, nil
}

// open marks the artifact served (starting its deletion countdown) and
// returns its file path and mime type.
func (s *Store) open(id string) (string, string, error) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return "", "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
		delete(s.entries, id)
		s.removeFile(e.path)
		return "", "", ErrNotFound
	}
	if e.expiresAt.IsZero() {
		e.expiresAt = now.Add(s.ttl)
	}
	return e.path, e.mimeType, nil
}

// Run sweeps expired artifacts until ctx is canceled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() int {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		expired := !e.expiresAt.IsZero() && now.After(e.expiresAt)
		stale := e.expiresAt.IsZero() && now.Sub(e.created) > unservedMaxAge
		if expired || stale {
			delete(s.entries, id)
			s.removeFile(e.path)
			removed++
		}
	}
	return removed
}

func (s *Store) removeFile(path string) {
	// A failed unlink just leaves an orphan file behind.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("artifact cleanup failed", "path", path, "err", err)
	}
}

func extFor(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".mp3"
	}
}
