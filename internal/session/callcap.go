package session

import (
	"context"
	"time"

	"unmute/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// capTTL bounds how long a stuck slot survives if a release is lost
// (process crash between call end and release).
const capTTL = 2 * time.Hour

// CallCap limits concurrent live calls per user through Redis. A nil
// *CallCap disables the limit, which is how the server runs when no Redis
// host is configured.
type CallCap struct {
	rdb   *redis.Client
	limit int
}

func NewCallCap(rdb *redis.Client, limit int) *CallCap {
	if rdb == nil || limit <= 0 {
		return nil
	}
	return &CallCap{rdb: rdb, limit: limit}
}

func (c *CallCap) Acquire(ctx context.Context, userID string) (bool, error) {
	if c == nil {
		return true, nil
	}
	return utils.AcquireConcurrencyCap(ctx, c.rdb, capKey(userID), c.limit, capTTL)
}

func (c *CallCap) Release(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	return utils.ReleaseConcurrencyCap(ctx, c.rdb, capKey(userID))
}

func capKey(userID string) string {
	return "unmute:active-calls:" + userID
}
