package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds the optimistic-lock retries of Update when a
// concurrent writer touches the same key between WATCH and EXEC.
const maxUpdateAttempts = 3

// RedisRepository stores each document as a JSON string under
// "<prefix>:<collection>:<id>" and keeps the collection's identifiers in
// the sorted set "<prefix>:<collection>:ids", scored by creation time.
//
// Timestamps come from the Redis server clock (TIME), not the gateway's.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "platform"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) documentKey(c model.Collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, c.Name, id)
}

func (r *RedisRepository) indexKey(c model.Collection) string {
	return fmt.Sprintf("%s:%s:ids", r.prefix, c.Name)
}

func (r *RedisRepository) List(ctx context.Context, c model.Collection) ([]model.Document, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(c), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s index: %w", c.Name, err)
	}
	if len(ids) == 0 {
		return []model.Document{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.documentKey(c, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s documents: %w", c.Name, err)
	}

	docs := make([]model.Document, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Deleted between ZRANGE and MGET.
			continue
		}
		var fields model.Fields
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", c.Name, ids[i], err)
		}
		docs = append(docs, model.Document{ID: ids[i], Fields: fields})
	}

	return model.SortDocuments(docs, c.SortField, c.Order), nil
}

func (r *RedisRepository) Create(ctx context.Context, c model.Collection, fields model.Fields) (model.Document, error) {
	now, err := r.client.Time(ctx).Result()
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read redis server time: %w", err)
	}
	now = now.UTC()

	stored := fields.Clone()
	stored[c.SortField] = now

	payload, err := json.Marshal(stored)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to encode %s document: %w", c.Name, err)
	}

	id := uuid.NewString()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.documentKey(c, id), payload, 0)
		pipe.ZAdd(ctx, r.indexKey(c), redis.Z{Score: float64(now.UnixMicro()), Member: id})
		return nil
	})
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create %s document: %w", c.Name, err)
	}

	return model.Document{ID: id, Fields: stored}, nil
}

func (r *RedisRepository) Update(ctx context.Context, c model.Collection, id string, fields model.Fields) error {
	if len(fields) == 0 {
		return documentError(c, id, ErrEmptyUpdate)
	}

	key := r.documentKey(c, id)

	merge := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var current model.Fields
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("failed to decode stored document: %w", err)
		}

		payload, err := json.Marshal(current.Merge(fields))
		if err != nil {
			return fmt.Errorf("failed to encode merged document: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = r.client.Watch(ctx, merge, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return documentError(c, id, err)
	}

	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, c model.Collection, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.documentKey(c, id))
		pipe.ZRem(ctx, r.indexKey(c), id)
		return nil
	})
	if err != nil {
		return documentError(c, id, err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
