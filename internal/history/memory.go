package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository used in tests and when no
// database is configured.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Record)}
}

func (m *MemoryRepository) Create(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.CallSID] = r
	return nil
}

func (m *MemoryRepository) Finalize(_ context.Context, callSID string, f Finalization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[callSID]
	if !ok {
		return ErrNotFound
	}
	r.Status = f.Status
	end := f.EndTime
	r.EndTime = &end
	r.DurationSeconds = f.DurationSeconds
	r.Transcript = f.Transcript
	r.Summary = f.Summary
	if f.RecordingURL != "" {
		u := f.RecordingURL
		r.RecordingURL = &u
	}
	m.rows[callSID] = r
	return nil
}

func (m *MemoryRepository) AttachRecording(_ context.Context, callSID, url string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[callSID]
	if !ok {
		return ErrNotFound
	}
	if url != "" {
		u := url
		r.RecordingURL = &u
	}
	if data != nil {
		r.RecordingData = data
	}
	m.rows[callSID] = r
	return nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, userID, callSID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[callSID]
	if !ok || r.UserID != userID {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepository) Delete(_ context.Context, userID, callSID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[callSID]
	if !ok || r.UserID != userID {
		return ErrNotFound
	}
	delete(m.rows, callSID)
	return nil
}
