package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-galaxy/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const reconnectDelay = 2 * time.Second

// PostgresBroker uses LISTEN/NOTIFY, so every instance sharing the database
// sees every change.
type PostgresBroker struct {
	db      database.PgxIface
	channel string
	log     *zap.Logger
}

func NewPostgresBroker(db database.PgxIface, channel string, log *zap.Logger) *PostgresBroker {
	return &PostgresBroker{
		db:      db,
		channel: channel,
		log:     log.With(zap.String("broker", "postgres")),
	}
}

func (b *PostgresBroker) Publish(ctx context.Context, movieID uuid.UUID) error {
	if _, err := b.db.Exec(ctx, "SELECT pg_notify($1, $2)", b.channel, movieID.String()); err != nil {
		return fmt.Errorf("notify %s: %w", b.channel, err)
	}
	return nil
}

// Listen keeps one pooled connection in LISTEN mode and reconnects after
// connection loss until ctx is done.
func (b *PostgresBroker) Listen(ctx context.Context, handle func(movieID uuid.UUID)) error {
	for {
		err := b.listenOnce(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.log.Warn("Listener connection lost, reconnecting", zap.Error(err))
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *PostgresBroker) listenOnce(ctx context.Context, handle func(movieID uuid.UUID)) error {
	conn, err := b.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	listen := "LISTEN " + pgx.Identifier{b.channel}.Sanitize()
	if _, err := conn.Exec(ctx, listen); err != nil {
		return fmt.Errorf("listen %s: %w", b.channel, err)
	}

	b.log.Info("Listening for comment changes", zap.String("channel", b.channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// Leave the connection clean for the pool
				_, _ = conn.Exec(context.Background(), "UNLISTEN *")
			}
			return err
		}

		movieID, err := uuid.Parse(n.Payload)
		if err != nil {
			b.log.Warn("Ignoring malformed notification", zap.String("payload", n.Payload))
			continue
		}
		handle(movieID)
	}
}

// Close is a no-op, the pool is owned by the caller.
func (b *PostgresBroker) Close() error {
	return nil
}
