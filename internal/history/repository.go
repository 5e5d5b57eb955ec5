package history

import "context"

// Repository persists call history. Reads are always scoped to the owning
// user; writes come only from the call orchestrator, which already knows the
// owner.
type Repository interface {
	Create(ctx context.Context, r Record) error
	Finalize(ctx context.Context, callSID string, f Finalization) error
	AttachRecording(ctx context.Context, callSID, url string, data []byte) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Get(ctx context.Context, userID, callSID string) (Record, error)
	Delete(ctx context.Context, userID, callSID string) error
}
