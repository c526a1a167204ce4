package repository

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChangeFeed tells subscribers that the record set has changed somewhere.
type ChangeFeed interface {
	Notify(ctx context.Context) error
	Listen(ctx context.Context, onChange func(), onError func(error)) (stop func(), err error)
}

// LocalFeed delivers change notifications to listeners in this process only.
type LocalFeed struct {
	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{listeners: make(map[int]func())}
}

func (f *LocalFeed) Notify(ctx context.Context) error {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (f *LocalFeed) Listen(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = onChange
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}, nil
}

const (
	DefaultRedisChannel = "cabin-bookings:changed"
	redisRetryDelay     = time.Second
)

// RedisFeed fans change notifications out through redis pub/sub so every
// instance reloads after any instance writes.
type RedisFeed struct {
	rdb     *redis.Client
	channel string
}

func NewRedisFeed(rdb *redis.Client, channel string) *RedisFeed {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisFeed{rdb: rdb, channel: channel}
}

func (f *RedisFeed) Notify(ctx context.Context) error {
	return f.rdb.Publish(ctx, f.channel, time.Now().UTC().Format(time.RFC3339Nano)).Err()
}

func (f *RedisFeed) Listen(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	pubsub := f.rdb.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("redis_feed_error channel=%s error=%q", f.channel, err.Error())
				if onError != nil {
					onError(err)
				}
				select {
				case <-time.After(redisRetryDelay):
				case <-ctx.Done():
					return
				}
				continue
			}
			onChange()
		}
	}()

	return func() {
		cancel()
		_ = pubsub.Close()
		<-done
	}, nil
}

// OpenChangeFeed returns a redis-backed feed when redisURL is set and a
// process-local one otherwise. The returned func releases the connection.
func OpenChangeFeed(ctx context.Context, redisURL string) (ChangeFeed, func(), error) {
	if redisURL == "" {
		return NewLocalFeed(), func() {}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisFeed(rdb, DefaultRedisChannel), func() { _ = rdb.Close() }, nil
}
