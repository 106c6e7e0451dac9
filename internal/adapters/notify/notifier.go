package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

const DefaultChannel = "kanso:notices"

var (
	_ domain.Notifier = LogNotifier{}
	_ domain.Notifier = (*RedisNotifier)(nil)
	_ domain.Notifier = Multi(nil)
)

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n domain.Notice) {
	log.Printf("[NOTICE] %s (%s)", n.Message, n.ID)
}

// RedisNotifier publishes every notice as JSON so other clients of the same
// store can show it too.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (r *RedisNotifier) Channel() string {
	return r.channel
}

func (r *RedisNotifier) Notify(ctx context.Context, n domain.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[NOTICE] Failed to encode notice %s: %v", n.ID, err)
		return
	}
	if err := r.rdb.Publish(ctx, r.channel, data).Err(); err != nil {
		log.Printf("[NOTICE] Redis publish error: %v", err)
	}
}

// Multi delivers each notice to every notifier in order.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
