package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

type Config struct {
	Addr      string `env:"ADDR,default=localhost:6379"`
	User      string `env:"USER"`
	Pass      string `env:"PASS"`
	Database  int    `env:"DATABASE,default=0"`
	KeyPrefix string `env:"UNIVERSAL_KEY_PREFIX,default=tiendex:"`
}

func (c Config) Options() *Options {
	return &Options{
		Addrs:    []string{c.Addr},
		Username: c.User,
		Password: c.Pass,
		DB:       c.Database,
	}
}

// StreamMessage is one entry read from a stream.
type StreamMessage struct {
	ID     string
	Values map[string]any
}

// RedisAdapter is the subset of redis the service relies on. Every key is
// transparently prefixed.
type RedisAdapter interface {
	Ping(ctx context.Context) error
	Close() error

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
	Exist(ctx context.Context, key string) (bool, error)

	XAdd(ctx context.Context, key string, values map[string]any) (string, error)
	XReadGroup(ctx context.Context, group, consumer, key string, count int64) ([]StreamMessage, error)
	XAck(ctx context.Context, key, group string, ids ...string) error
	XGroupCreateMkStream(ctx context.Context, key, group, start string) error
	XLen(ctx context.Context, key string) (int64, error)
	XTrimApprox(ctx context.Context, key string, maxLen int64) error
	XPending(ctx context.Context, key, group string) (*goredis.XPending, error)
	XPendingExt(ctx context.Context, key, group string, count int64) ([]goredis.XPendingExt, error)
	XClaim(ctx context.Context, key, group, consumer string, minIdle time.Duration, ids ...string) ([]StreamMessage, error)
}

type redisAdapter struct {
	prefix string
	conn   goredis.UniversalClient
}

// NewRedisAdapter opens a client and checks it with a PING.
func NewRedisAdapter(ctx context.Context, keysPrefix string, opts *Options) (RedisAdapter, error) {
	c := goredis.NewUniversalClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &redisAdapter{conn: c, prefix: keysPrefix}, nil
}

func (r *redisAdapter) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx).Err()
}

func (r *redisAdapter) Close() error {
	return r.conn.Close()
}

func (r *redisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.conn.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *redisAdapter) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return r.conn.SetNX(ctx, r.prefix+key, value, ttl).Result()
}

func (r *redisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return r.conn.Get(ctx, r.prefix+key).Bytes()
}

func (r *redisAdapter) Del(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}
	return r.conn.Del(ctx, prefixed...).Err()
}

func (r *redisAdapter) Exist(ctx context.Context, key string) (bool, error) {
	n, err := r.conn.Exists(ctx, r.prefix+key).Result()
	return n > 0, err
}

func (r *redisAdapter) XAdd(ctx context.Context, key string, values map[string]any) (string, error) {
	return r.conn.XAdd(ctx, &goredis.XAddArgs{
		Stream: r.prefix + key,
		ID:     "*",
		Values: values,
	}).Result()
}

// XReadGroup reads new entries for the consumer without blocking. An empty
// stream yields no messages and no error.
func (r *redisAdapter) XReadGroup(ctx context.Context, group, consumer, key string, count int64) ([]StreamMessage, error) {
	streams, err := r.conn.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{r.prefix + key, ">"},
		Count:    count,
		Block:    -1,
	}).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []StreamMessage
	for _, stream := range streams {
		messages = append(messages, toStreamMessages(stream.Messages)...)
	}
	return messages, nil
}

func (r *redisAdapter) XAck(ctx context.Context, key, group string, ids ...string) error {
	return r.conn.XAck(ctx, r.prefix+key, group, ids...).Err()
}

// XGroupCreateMkStream creates the group and the stream. An existing group
// is not an error.
func (r *redisAdapter) XGroupCreateMkStream(ctx context.Context, key, group, start string) error {
	err := r.conn.XGroupCreateMkStream(ctx, r.prefix+key, group, start).Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

func (r *redisAdapter) XLen(ctx context.Context, key string) (int64, error) {
	return r.conn.XLen(ctx, r.prefix+key).Result()
}

func (r *redisAdapter) XTrimApprox(ctx context.Context, key string, maxLen int64) error {
	return r.conn.XTrimMaxLenApprox(ctx, r.prefix+key, maxLen, 0).Err()
}

func (r *redisAdapter) XPending(ctx context.Context, key, group string) (*goredis.XPending, error) {
	return r.conn.XPending(ctx, r.prefix+key, group).Result()
}

func (r *redisAdapter) XPendingExt(ctx context.Context, key, group string, count int64) ([]goredis.XPendingExt, error) {
	return r.conn.XPendingExt(ctx, &goredis.XPendingExtArgs{
		Stream: r.prefix + key,
		Group:  group,
		Start:  "-",
		End:    "+",
		Count:  count,
	}).Result()
}

func (r *redisAdapter) XClaim(ctx context.Context, key, group, consumer string, minIdle time.Duration, ids ...string) ([]StreamMessage, error) {
	msgs, err := r.conn.XClaim(ctx, &goredis.XClaimArgs{
		Stream:   r.prefix + key,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		return nil, err
	}
	return toStreamMessages(msgs), nil
}

func toStreamMessages(msgs []goredis.XMessage) []StreamMessage {
	out := make([]StreamMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, StreamMessage{ID: m.ID, Values: m.Values})
	}
	return out
}
