package dedup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// UpdateDeduper filters re-delivered webhook updates. Telegram re-posts an
// update whenever the previous delivery was not acknowledged fast enough, so
// a slow LLM answer can make the same message arrive twice.
type UpdateDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUpdateDeduper accepts a nil client; dedup then degrades to a no-op
// (single-instance deployments without Redis simply rely on fast ACKs).
func NewUpdateDeduper(rdb *redis.Client) *UpdateDeduper {
	return &UpdateDeduper{
		rdb: rdb,
		ttl: 10 * time.Minute,
	}
}

// Seen records the update id and reports whether it was already processed.
func (d *UpdateDeduper) Seen(ctx context.Context, updateId int64) bool {
	if d.rdb == nil {
		return false
	}
	key := fmt.Sprintf("webhook:update:%d", updateId)
	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		// Redis down: better to double-process than drop a message
		log.Printf("[WARN] Dedup check failed for update %d: %v", updateId, err)
		return false
	}
	return !ok
}
