package live

import (
	"context"
	"fmt"
	"time"

	"movie-galaxy/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker fans notifications out over a Redis pub/sub channel.
type RedisBroker struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// NewRedisClient connects and pings with a short timeout
func NewRedisClient(cfg utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisBroker(client *redis.Client, channel string, log *zap.Logger) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: channel,
		log:     log.With(zap.String("broker", "redis")),
	}
}

func (b *RedisBroker) Publish(ctx context.Context, movieID uuid.UUID) error {
	if err := b.client.Publish(ctx, b.channel, movieID.String()).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", b.channel, err)
	}
	return nil
}

func (b *RedisBroker) Listen(ctx context.Context, handle func(movieID uuid.UUID)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	b.log.Info("Listening for comment changes", zap.String("channel", b.channel))

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ErrBrokerClosed
			}
			movieID, err := uuid.Parse(msg.Payload)
			if err != nil {
				b.log.Warn("Ignoring malformed notification", zap.String("payload", msg.Payload))
				continue
			}
			handle(movieID)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
