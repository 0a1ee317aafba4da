package config

import (
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds every setting the binaries read. Nothing else in the module
// reads the environment directly.
type Config struct {
	AppEnv  string `env:"APP_ENV,default=dev"`
	AppName string `env:"APP_NAME,default=tiendex"`

	LogEnv   string `env:"LOG_ENV"`
	LogLevel string `env:"LOG_LEVEL"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST,default=localhost"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST,default=localhost"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=tiendex:"`

	PromNamespace string `env:"PROM_NAMESPACE,default=tiendex"`
	MetricsAddr   string `env:"METRICS_ADDR,default=:9100"`

	LedgerMaxRetries   int    `env:"LEDGER_MAX_RETRIES,default=3"`
	LedgerEventsStream string `env:"LEDGER_EVENTS_STREAM,default=ledger-events"`

	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP,default=ledger-workers"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME"`
	QueueConsumers         int           `env:"QUEUE_CONSUMERS,default=1"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES,default=5"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT,default=30s"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL,default=1s"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE,default=10"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN,default=100000"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ,default=true"`

	WorkerCount int `env:"WORKER_COUNT,default=4"`

	SweepSchedule string `env:"SWEEP_SCHEDULE,default=@every 1h"`
	SweepEnabled  bool   `env:"SWEEP_ENABLED,default=true"`
	Timezone      string `env:"TIMEZONE,default=UTC"`
}

// Load reads the optional .env file at path into the environment and maps
// the environment onto a Config. Variables already set win over the file.
func Load(path string) (*Config, error) {
	if path != "" {
		logger.Info("loading env file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to configuration")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// EnvPathFromArgs returns the value of a --env=path argument. When there is
// none it falls back to ./.env if that file exists.
func EnvPathFromArgs(args []string) string {
	for _, a := range args {
		if p, ok := strings.CutPrefix(a, "--env="); ok {
			return p
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

func (c *Config) validate() error {
	if c.LedgerMaxRetries < 0 {
		return errors.New("LEDGER_MAX_RETRIES must not be negative")
	}
	if c.WorkerCount <= 0 {
		return errors.New("WORKER_COUNT must be positive")
	}
	if c.QueueConsumers <= 0 {
		return errors.New("QUEUE_CONSUMERS must be positive")
	}
	if c.LedgerEventsStream == "" {
		return errors.New("LEDGER_EVENTS_STREAM is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "invalid TIMEZONE %q", c.Timezone)
	}
	return nil
}

func (c *Config) Debug() bool {
	return c.AppEnv == "dev"
}

func (c *Config) PostgresRead() pg.Config {
	return pg.Config{
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
	}
}

func (c *Config) PostgresWrite() pg.Config {
	return pg.Config{
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
	}
}

func (c *Config) Redis() redis.Config {
	return redis.Config{
		Addr:      c.RedisAddr,
		User:      c.RedisUsername,
		Pass:      c.RedisPassword,
		Database:  c.RedisDatabase,
		KeyPrefix: c.RedisUniversalKeyPrefix,
	}
}

// Queue is the ledger event stream config. The API only publishes to it;
// the worker also consumes.
func (c *Config) Queue() queue.QueueConfig {
	return queue.QueueConfig{
		Name:              c.LedgerEventsStream,
		ConsumerGroup:     c.QueueConsumerGroup,
		ConsumerName:      c.QueueConsumerName,
		MaxRetries:        c.QueueMaxRetries,
		VisibilityTimeout: c.QueueVisibilityTimeout,
		PollInterval:      c.QueuePollInterval,
		BatchSize:         c.QueueBatchSize,
		MaxLen:            c.QueueMaxLen,
		EnableDLQ:         c.QueueEnableDLQ,
	}
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
