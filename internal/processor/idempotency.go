package processor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
)

var (
	ErrAlreadyProcessed   = errors.New("event already processed")
	ErrLockAcquireFailed  = errors.New("failed to acquire processing lock")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
)

type IdempotencyConfig struct {
	LockTTL      time.Duration
	ProcessedTTL time.Duration
	MaxRetries   int

	RetryKeyPrefix     string
	LockKeyPrefix      string
	ProcessedKeyPrefix string
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		LockTTL:            30 * time.Second,
		ProcessedTTL:       24 * time.Hour,
		MaxRetries:         3,
		RetryKeyPrefix:     "ledger:retry:",
		LockKeyPrefix:      "ledger:lock:",
		ProcessedKeyPrefix: "ledger:processed:",
	}
}

// IdempotencyService guards event handling so a redelivered ledger event
// is applied at most once. Keys are per transaction id.
type IdempotencyService struct {
	redis  redis.RedisAdapter
	config IdempotencyConfig
}

func NewIdempotencyService(adapter redis.RedisAdapter, config IdempotencyConfig) *IdempotencyService {
	return &IdempotencyService{
		redis:  adapter,
		config: config,
	}
}

// Claim is held by the consumer currently processing a key.
type Claim struct {
	Key        string
	RetryCount int
	held       bool
}

func (c *Claim) IsRetry() bool { return c.RetryCount > 0 }

func (s *IdempotencyService) Acquire(ctx context.Context, key string) (*Claim, error) {
	done, err := s.redis.Exist(ctx, s.config.ProcessedKeyPrefix+key)
	if err != nil {
		// processing twice is harmless for notifications; blocking is not
		logger.Warn("[idempotency] processed check failed", "key", key, "error", err)
	} else if done {
		return nil, ErrAlreadyProcessed
	}

	retries, err := s.RetryCount(ctx, key)
	if err != nil {
		logger.Warn("[idempotency] retry counter unreadable", "key", key, "error", err)
	}
	if retries >= s.config.MaxRetries {
		return nil, fmt.Errorf("%w: key=%s retries=%d", ErrMaxRetriesExceeded, key, retries)
	}

	stamp := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))
	ok, err := s.redis.SetNX(ctx, s.config.LockKeyPrefix+key, stamp, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockAcquireFailed, err)
	}
	if !ok {
		return nil, ErrLockAcquireFailed
	}

	return &Claim{Key: key, RetryCount: retries, held: true}, nil
}

// MarkSuccess records the key as processed and drops the lock and counter.
func (s *IdempotencyService) MarkSuccess(ctx context.Context, c *Claim) error {
	if err := s.redis.Set(ctx, s.config.ProcessedKeyPrefix+c.Key, []byte("1"), s.config.ProcessedTTL); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	if err := s.redis.Del(ctx, s.config.LockKeyPrefix+c.Key, s.config.RetryKeyPrefix+c.Key); err != nil {
		logger.Warn("[idempotency] cleanup failed", "key", c.Key, "error", err)
	}
	c.held = false
	return nil
}

// MarkFailure bumps the retry counter and frees the lock for the next attempt.
func (s *IdempotencyService) MarkFailure(ctx context.Context, c *Claim, reason error) error {
	next := c.RetryCount + 1
	if err := s.redis.Set(ctx, s.config.RetryKeyPrefix+c.Key, []byte(strconv.Itoa(next)), s.config.ProcessedTTL); err != nil {
		logger.Error("[idempotency] retry counter not stored", "key", c.Key, "error", err)
	}
	err := s.Release(ctx, c)
	logger.Warn("[idempotency] processing failed",
		"key", c.Key,
		"retry_count", next,
		"max_retries", s.config.MaxRetries,
		"reason", reason)
	return err
}

func (s *IdempotencyService) Release(ctx context.Context, c *Claim) error {
	if c == nil || !c.held {
		return nil
	}
	if err := s.redis.Del(ctx, s.config.LockKeyPrefix+c.Key); err != nil {
		return err
	}
	c.held = false
	return nil
}

func (s *IdempotencyService) RetryCount(ctx context.Context, key string) (int, error) {
	raw, err := s.redis.Get(ctx, s.config.RetryKeyPrefix+key)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *IdempotencyService) IsProcessed(ctx context.Context, key string) (bool, error) {
	return s.redis.Exist(ctx, s.config.ProcessedKeyPrefix+key)
}
