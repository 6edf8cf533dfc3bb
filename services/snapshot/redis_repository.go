package snapshot

import (
	"context"
	"errors"
	"fmt"
	"lending/providers"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lending:snapshot:"

type redisEnvelope struct {
	Payload jsoniter.RawMessage `json:"payload"`
	SavedAt time.Time           `json:"saved_at"`
}

type RedisRepository struct {
	client providers.RedisProvider
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisRepository stores snapshots as JSON envelopes. A zero ttl keeps
// them until overwritten.
func NewRedisRepository(client providers.RedisProvider, ttl time.Duration) Repository {
	return &RedisRepository{client: client, ttl: ttl, now: time.Now}
}

func (r *RedisRepository) Save(ctx context.Context, name string, payload []byte) error {
	envelope, err := jsoniter.Marshal(redisEnvelope{Payload: payload, SavedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", name, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+name, string(envelope), r.ttl); err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", name, err)
	}
	return nil
}

func (r *RedisRepository) Load(ctx context.Context, name string) (Snapshot, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+name)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to load %s snapshot: %w", name, err)
	}

	var envelope redisEnvelope
	if err := jsoniter.UnmarshalFromString(raw, &envelope); err != nil {
		return Snapshot{}, fmt.Errorf("corrupt %s snapshot: %w", name, err)
	}
	return Snapshot{Name: name, Payload: []byte(envelope.Payload), SavedAt: envelope.SavedAt}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+name); err != nil {
		return fmt.Errorf("failed to delete %s snapshot: %w", name, err)
	}
	return nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
