package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/harvesthub/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "table-changes:"

// RedisNotifier broadcasts table change events over Redis pub/sub.
// Each watched table gets its own channel; subscribers receive the
// table name as the message payload.
type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier connects to Redis and returns a notifier
func NewRedisNotifier(cfg config.RedisConfig, logger *zap.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for change feed: %w", err)
	}

	return &RedisNotifier{client: client, logger: logger}, nil
}

// NewRedisNotifierWithClient wraps an existing Redis client
func NewRedisNotifierWithClient(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

// Notify publishes a change event for the table
func (n *RedisNotifier) Notify(ctx context.Context, table string) error {
	if err := n.client.Publish(ctx, channelPrefix+table, table).Err(); err != nil {
		return fmt.Errorf("failed to publish change for %s: %w", table, err)
	}
	return nil
}

// Subscribe returns a channel that receives the table name on every
// change. The returned func stops the subscription and closes the
// channel.
func (n *RedisNotifier) Subscribe(ctx context.Context, table string) (<-chan string, func(), error) {
	pubsub := n.client.Subscribe(ctx, channelPrefix+table)

	// Force the subscription to be established before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", table, err)
	}

	out := make(chan string, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		src := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					// Slow consumer, drop rather than block the feed
					if n.logger != nil {
						n.logger.Warn("change feed subscriber lagging, dropping event",
							zap.String("table", table))
					}
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = pubsub.Close()
	}
	return out, cancel, nil
}

// Close releases the underlying Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
