package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/model"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
)

const (
	fieldData      = "data"
	fieldTimestamp = "timestamp"
	metaPrefix     = "meta_"
)

// Message is one stream entry handed to a consumer.
type Message struct {
	ID        string
	Data      []byte
	Metadata  map[string]string
	Timestamp time.Time
	Attempts  int
	acked     bool
	nacked    bool
	queue     *Queue
}

func (m *Message) Ack(ctx context.Context) error {
	if m.acked {
		return errors.New("message already acknowledged")
	}
	if m.nacked {
		return errors.New("message already rejected")
	}
	m.acked = true
	return m.queue.ack(ctx, m.ID)
}

// Nack leaves the entry pending so it is claimed again after the
// visibility timeout.
func (m *Message) Nack() error {
	if m.acked {
		return errors.New("message already acknowledged")
	}
	if m.nacked {
		return errors.New("message already rejected")
	}
	m.nacked = true
	return nil
}

// MessageHandler processes one entry. A nil return acks it; an error leaves
// it pending for redelivery.
type MessageHandler func(ctx context.Context, msg *Message) error

type QueueConfig struct {
	Name              string
	ConsumerGroup     string
	ConsumerName      string
	MaxRetries        int
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	MaxLen            int64
	EnableDLQ         bool
}

type Queue struct {
	adapter redis.RedisAdapter
	config  QueueConfig
	handler MessageHandler
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	attempts map[string]int
}

type QueueStats struct {
	TotalMessages   int64
	PendingMessages int64
	ConsumerCount   int64
}

func NewQueue(ctx context.Context, adapter redis.RedisAdapter, config QueueConfig) (*Queue, error) {
	if config.Name == "" {
		return nil, errors.New("queue name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "default-group"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.VisibilityTimeout == 0 {
		config.VisibilityTimeout = 30 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}

	if err := adapter.XGroupCreateMkStream(ctx, config.Name, config.ConsumerGroup, "0"); err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	qctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		adapter:  adapter,
		config:   config,
		ctx:      qctx,
		cancel:   cancel,
		attempts: make(map[string]int),
	}, nil
}

func (q *Queue) Publish(ctx context.Context, data []byte, metadata map[string]string) (string, error) {
	values := map[string]any{
		fieldData:      string(data),
		fieldTimestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range metadata {
		values[metaPrefix+k] = v
	}

	id, err := q.adapter.XAdd(ctx, q.config.Name, values)
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	if q.config.MaxLen > 0 {
		if err := q.adapter.XTrimApprox(ctx, q.config.Name, q.config.MaxLen); err != nil {
			logger.Warn("[queue] trim failed", "queue", q.config.Name, "error", err)
		}
	}
	return id, nil
}

func (q *Queue) PublishJSON(ctx context.Context, data any, metadata map[string]string) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return q.Publish(ctx, b, metadata)
}

// PublishLedgerEvent appends ev to the ledger stream.
func (q *Queue) PublishLedgerEvent(ctx context.Context, ev *model.LedgerEvent) error {
	_, err := q.PublishJSON(ctx, ev, map[string]string{
		"type":     ev.Type,
		"store_id": ev.StoreID,
	})
	return err
}

// Consume starts the polling loop in the background.
func (q *Queue) Consume(handler MessageHandler) error {
	if handler == nil {
		return errors.New("message handler is required")
	}
	q.handler = handler
	q.wg.Add(1)
	go q.consumeLoop()
	return nil
}

func (q *Queue) consumeLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.readNew()
			q.claimStuck()
		}
	}
}

func (q *Queue) readNew() {
	messages, err := q.adapter.XReadGroup(q.ctx, q.config.ConsumerGroup, q.config.ConsumerName, q.config.Name, q.config.BatchSize)
	if err != nil {
		if q.ctx.Err() == nil {
			logger.Warn("[queue] read failed", "queue", q.config.Name, "error", err)
		}
		return
	}
	for _, sm := range messages {
		q.handle(q.toMessage(sm))
	}
}

func (q *Queue) claimStuck() {
	pending, err := q.adapter.XPendingExt(q.ctx, q.config.Name, q.config.ConsumerGroup, 100)
	if err != nil || len(pending) == 0 {
		return
	}

	var ids []string
	for _, p := range pending {
		if p.Idle >= q.config.VisibilityTimeout {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	messages, err := q.adapter.XClaim(q.ctx, q.config.Name, q.config.ConsumerGroup, q.config.ConsumerName, q.config.VisibilityTimeout, ids...)
	if err != nil {
		return
	}
	for _, sm := range messages {
		q.handle(q.toMessage(sm))
	}
}

func (q *Queue) handle(msg *Message) {
	q.mu.Lock()
	q.attempts[msg.ID]++
	msg.Attempts = q.attempts[msg.ID]
	q.mu.Unlock()

	if msg.Attempts > q.config.MaxRetries {
		q.deadLetter(msg)
		_ = q.ack(q.ctx, msg.ID)
		return
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.VisibilityTimeout)
	defer cancel()

	if err := q.handler(ctx, msg); err != nil {
		logger.Warn("[queue] handler failed, message stays pending",
			"queue", q.config.Name, "id", msg.ID, "attempt", msg.Attempts, "error", err)
		return
	}
	if !msg.acked {
		if err := q.ack(q.ctx, msg.ID); err != nil {
			logger.Warn("[queue] ack failed", "queue", q.config.Name, "id", msg.ID, "error", err)
		}
	}
}

func (q *Queue) ack(ctx context.Context, id string) error {
	q.mu.Lock()
	delete(q.attempts, id)
	q.mu.Unlock()
	return q.adapter.XAck(ctx, q.config.Name, q.config.ConsumerGroup, id)
}

func (q *Queue) deadLetter(msg *Message) {
	if !q.config.EnableDLQ {
		return
	}

	values := map[string]any{
		fieldData:        string(msg.Data),
		"original_id":    msg.ID,
		"attempts":       msg.Attempts,
		"failed_at":      time.Now().UTC().Format(time.RFC3339Nano),
		"original_queue": q.config.Name,
	}
	for k, v := range msg.Metadata {
		values[metaPrefix+k] = v
	}

	if _, err := q.adapter.XAdd(q.ctx, q.DeadLetterName(), values); err != nil {
		logger.Error("[queue] dead letter failed", "queue", q.config.Name, "id", msg.ID, "error", err)
		return
	}
	logger.Warn("[queue] message moved to dead letter stream", "queue", q.config.Name, "id", msg.ID, "attempts", msg.Attempts)
}

func (q *Queue) DeadLetterName() string {
	return q.config.Name + ":dlq"
}

func (q *Queue) toMessage(sm redis.StreamMessage) *Message {
	msg := &Message{
		ID:       sm.ID,
		Metadata: make(map[string]string),
		queue:    q,
	}

	for k, v := range sm.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch {
		case k == fieldData:
			msg.Data = []byte(s)
		case k == fieldTimestamp:
			if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
				msg.Timestamp = ts
			}
		case strings.HasPrefix(k, metaPrefix):
			msg.Metadata[strings.TrimPrefix(k, metaPrefix)] = s
		}
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}

// Stop ends the polling loop and waits for the in-flight batch.
func (q *Queue) Stop(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("timeout waiting for queue to stop")
	}
}

func (q *Queue) GetStats(ctx context.Context) (*QueueStats, error) {
	total, err := q.adapter.XLen(ctx, q.config.Name)
	if err != nil {
		return nil, err
	}
	stats := &QueueStats{TotalMessages: total}

	if pending, err := q.adapter.XPending(ctx, q.config.Name, q.config.ConsumerGroup); err == nil && pending != nil {
		stats.PendingMessages = pending.Count
		stats.ConsumerCount = int64(len(pending.Consumers))
	}
	return stats, nil
}
