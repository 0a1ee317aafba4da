package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
	"github.com/OrtegaGeovanny/tiendex/pkg/worker"
)

const (
	ProcessingTimeout = 5 * time.Second
	ShutdownTimeout   = 30 * time.Second
	ReportInterval    = 30 * time.Second
	lagWarnThreshold  = 10_000
)

type Processor interface {
	Process(ctx context.Context, msg *queue.Message) error
	GetType() string
}

type ServiceConfig struct {
	Queue     queue.QueueConfig
	Consumers int
	Workers   int
	Buffer    int
}

// ProcessorService reads the ledger stream with a set of consumers and hands
// every entry to a worker pool running the registered Processor.
type ProcessorService struct {
	adapter   redis.RedisAdapter
	config    ServiceConfig
	processor Processor
	queues    []*queue.Queue
	metrics   *ServiceMetrics
	worker    *worker.WorkerManager

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewProcessorService(adapter redis.RedisAdapter, cfg ServiceConfig) *ProcessorService {
	if cfg.Consumers <= 0 {
		cfg.Consumers = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 16
	}
	return &ProcessorService{
		adapter: adapter,
		config:  cfg,
		metrics: NewServiceMetrics(),
		worker:  worker.NewWorkerManager(cfg.Buffer, cfg.Workers),
	}
}

func (s *ProcessorService) RegisterProcessor(p Processor) {
	s.processor = p
	logger.Info("[processor] registered", "type", p.GetType())
}

func (s *ProcessorService) Metrics() *ServiceMetrics {
	return s.metrics
}

func (s *ProcessorService) Start(ctx context.Context) error {
	if s.processor == nil {
		return errors.New("no processor registered")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.worker.SetWorker(s.workerHandler)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.Start(s.ctx)
	}()

	for i := 0; i < s.config.Consumers; i++ {
		qc := s.config.Queue
		qc.ConsumerName = fmt.Sprintf("%s-%d", qc.ConsumerName, i)

		q, err := queue.NewQueue(s.ctx, s.adapter, qc)
		if err != nil {
			s.Stop()
			return fmt.Errorf("create consumer %d: %w", i, err)
		}
		if err := q.Consume(s.messageHandler); err != nil {
			s.Stop()
			return fmt.Errorf("start consumer %d: %w", i, err)
		}
		s.queues = append(s.queues, q)
	}

	s.wg.Add(1)
	go s.reporter()

	logger.Info("[processor] started",
		"stream", s.config.Queue.Name,
		"consumers", len(s.queues),
		"workers", s.config.Workers)
	return nil
}

func (s *ProcessorService) reporter() {
	defer s.wg.Done()

	ticker := time.NewTicker(ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.report()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *ProcessorService) report() {
	st := s.metrics.Snapshot()
	logger.Info("[processor] stats",
		"processed", st.Processed,
		"failed", st.Failed,
		"rate_per_second", st.RatePerSecond,
		"avg_duration_ms", st.AvgDuration.Milliseconds())

	if err := s.adapter.Ping(s.ctx); err != nil {
		logger.Error("[processor] redis unreachable", "error", err)
		return
	}
	if len(s.queues) == 0 {
		return
	}
	// consumers share one stream and group
	qs, err := s.queues[0].GetStats(s.ctx)
	if err != nil {
		logger.Warn("[processor] stream stats unavailable", "error", err)
		return
	}
	if qs.PendingMessages > lagWarnThreshold {
		logger.Warn("[processor] stream lag is high", "pending", qs.PendingMessages, "total", qs.TotalMessages)
	}
}

func (s *ProcessorService) Stop() {
	if s.cancel == nil {
		return
	}
	logger.Info("[processor] shutting down")

	var qwg sync.WaitGroup
	for i, q := range s.queues {
		qwg.Add(1)
		go func(index int, q *queue.Queue) {
			defer qwg.Done()
			if err := q.Stop(ShutdownTimeout); err != nil {
				logger.Error("[processor] consumer did not stop", "consumer", index, "error", err)
			}
		}(i, q)
	}
	qwg.Wait()

	s.worker.Exit()
	s.cancel()
	s.wg.Wait()

	st := s.metrics.Snapshot()
	logger.Info("[processor] stopped", "processed", st.Processed, "failed", st.Failed)
}

type job struct {
	ctx    context.Context
	msg    *queue.Message
	result chan error
}

// messageHandler runs on the consumer goroutine and blocks until a worker
// has finished with the entry, so ack or redelivery follows the outcome.
func (s *ProcessorService) messageHandler(ctx context.Context, msg *queue.Message) error {
	jctx, cancel := context.WithTimeout(ctx, ProcessingTimeout)
	defer cancel()

	j := &job{ctx: jctx, msg: msg, result: make(chan error, 1)}
	if !s.worker.Enqueue(jctx, j) {
		return fmt.Errorf("worker pool unavailable for %s", msg.ID)
	}

	select {
	case err := <-j.result:
		return err
	case <-jctx.Done():
		return fmt.Errorf("timeout waiting for worker: %w", jctx.Err())
	}
}

func (s *ProcessorService) workerHandler(index int, payload any) {
	j, ok := payload.(*job)
	if !ok {
		logger.Error("[processor] unexpected job type", "worker", index)
		return
	}
	if j.ctx.Err() != nil {
		j.result <- j.ctx.Err()
		return
	}

	start := time.Now()
	err := s.processor.Process(j.ctx, j.msg)
	if err != nil {
		s.metrics.RecordFailure()
		logger.Warn("[processor] event failed", "worker", index, "id", j.msg.ID, "attempt", j.msg.Attempts, "error", err)
	} else {
		s.metrics.RecordSuccess(time.Since(start))
	}
	j.result <- err
}
