// Package feed broadcasts collection change notifications over Redis
// pub/sub. A message on a collection channel carries no payload: it tells
// subscribers the collection changed and should be re-read.
package feed

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	ChannelGroup string `mapstructure:"channel_group"`
}

// RedisFeed implements the change feed on Redis pub/sub.
type RedisFeed struct {
	rdb   *redis.Client
	group string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*RedisFeed, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	group := cfg.ChannelGroup
	if group == "" {
		group = "store-manager"
	}

	return &RedisFeed{
		rdb:   rdb,
		group: group,
	}, nil
}

func (f *RedisFeed) channel(collection string) string {
	return f.group + ":changed:" + collection
}

// Publish notifies all subscribers that the collection changed.
func (f *RedisFeed) Publish(ctx context.Context, collection string) error {
	if err := f.rdb.Publish(ctx, f.channel(collection), "1").Err(); err != nil {
		return fmt.Errorf("failed to publish change for [%s]: %w", collection, err)
	}
	return nil
}

// Subscribe returns a channel that receives a tick for every change of the
// collection, and a cancel func releasing the subscription. Ticks are
// conflated: a slow consumer sees at least one tick, not necessarily all.
func (f *RedisFeed) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	sub := f.rdb.Subscribe(ctx, f.channel(collection))

	// force the subscription to be established before returning
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to [%s]: %w", collection, err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var cancelled bool
	cancel := func() {
		if cancelled {
			return
		}
		cancelled = true
		close(done)
		if err := sub.Close(); err != nil {
			slog.Default().ErrorContext(ctx, "failed to close subscription",
				slog.String("collection", collection),
				slog.String("err", err.Error()),
			)
		}
	}

	return out, cancel, nil
}

// Ping checks the Redis connection health.
func (f *RedisFeed) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return f.rdb.Ping(ctx).Err()
}

func (f *RedisFeed) Close() error {
	return f.rdb.Close()
}
