package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/geohash-service/internal/config"
)

// Client - подключение к Redis, используемое стримами воркера
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// NewClient подключается к Redis и проверяет соединение
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close закрывает соединение
func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}

// Health - ping Redis
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Redis возвращает нижележащий клиент go-redis
func (c *Client) Redis() *redis.Client {
	return c.client
}
