package store

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis keeps items as plain string keys under a namespace prefix. Update
// relies on WATCH/MULTI so a concurrent writer aborts the transaction.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// RedisOptions configures the redis backend
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedis connects to redis and verifies the connection
func NewRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", opts.Addr)
	}
	return &Redis{client: client, prefix: opts.Prefix, logger: logger}, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "read %q", key)
	}
	return value, true, nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "write %q", key)
	}
	return nil
}

func (r *Redis) Update(ctx context.Context, key string, fn UpdateFunc) error {
	k := r.key(key)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Result()
		ok := true
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return errors.Wrapf(err, "read %q", key)
			}
			ok = false
		}

		next, err := fn(current, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		r.logger.Warn("redis watch lost, retrying",
			slog.String("key", key),
			slog.Int("attempt", attempt),
		)
	}
	return errors.Wrapf(ErrConflict, "update %q", key)
}

// Close closes the redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
