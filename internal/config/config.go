package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Log    LogConfig
	Batch  BatchConfig
	Worker WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// BatchConfig - параметры пакетной конвертации
type BatchConfig struct {
	// Threads == 0 означает число физических ядер
	Threads         int
	SharedPool      bool
	MaxThreads      int
	MaxSize         int
	ChunksPerThread int
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	StreamIn      string
	StreamOut     string
	ReadCount     int64
	ReadBlock     time.Duration
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			ReadTimeout:  time.Duration(v.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("API_WRITE_TIMEOUT")) * time.Second,
			BodyLimit:    v.GetInt("API_BODY_LIMIT"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Batch: BatchConfig{
			Threads:         v.GetInt("BATCH_THREADS"),
			SharedPool:      v.GetBool("BATCH_SHARED_POOL"),
			MaxThreads:      v.GetInt("BATCH_MAX_THREADS"),
			MaxSize:         v.GetInt("BATCH_MAX_SIZE"),
			ChunksPerThread: v.GetInt("BATCH_CHUNKS_PER_THREAD"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			StreamIn:      v.GetString("WORKER_STREAM_IN"),
			StreamOut:     v.GetString("WORKER_STREAM_OUT"),
			ReadCount:     v.GetInt64("WORKER_READ_COUNT"),
			ReadBlock:     time.Duration(v.GetInt("WORKER_READ_BLOCK")) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_READ_TIMEOUT", 10)
	v.SetDefault("API_WRITE_TIMEOUT", 30)
	v.SetDefault("API_BODY_LIMIT", 64*1024*1024)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BATCH_THREADS", 0)
	v.SetDefault("BATCH_MAX_THREADS", 256)
	v.SetDefault("BATCH_MAX_SIZE", 1_000_000)
	v.SetDefault("BATCH_CHUNKS_PER_THREAD", 4)
	v.SetDefault("WORKER_CONSUMER_GROUP", "geohash-conversion-workers")
	v.SetDefault("WORKER_STREAM_IN", "stream:geohash:convert")
	v.SetDefault("WORKER_STREAM_OUT", "stream:geohash:done")
	v.SetDefault("WORKER_READ_COUNT", 10)
	v.SetDefault("WORKER_READ_BLOCK", 1000)
}

// Validate - отклоняет настройки, которые batch-слой все равно отверг бы при вызове
func (c *Config) Validate() error {
	if c.Batch.Threads < 0 {
		return fmt.Errorf("BATCH_THREADS must be >= 0, got %d", c.Batch.Threads)
	}
	if c.Batch.MaxThreads < 1 {
		return fmt.Errorf("BATCH_MAX_THREADS must be >= 1, got %d", c.Batch.MaxThreads)
	}
	if c.Batch.Threads > c.Batch.MaxThreads {
		return fmt.Errorf("BATCH_THREADS (%d) exceeds BATCH_MAX_THREADS (%d)", c.Batch.Threads, c.Batch.MaxThreads)
	}
	if c.Batch.MaxSize < 1 {
		return fmt.Errorf("BATCH_MAX_SIZE must be >= 1, got %d", c.Batch.MaxSize)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
