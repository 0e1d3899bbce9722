package wire

import (
	"fmt"
	"strings"

	"movie-galaxy/internal/data/live"
	"movie-galaxy/pkg/database"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

// NewBroker picks the comment change broker named by REALTIME_DRIVER
func NewBroker(db database.PgxIface, config *utils.Config, logger *zap.Logger) (live.Broker, error) {
	driver := strings.ToLower(config.Realtime.Driver)

	switch driver {
	case "", "postgres":
		return live.NewPostgresBroker(db, config.Realtime.Channel, logger), nil

	case "redis":
		client, err := live.NewRedisClient(config.Redis)
		if err != nil {
			return nil, err
		}
		return live.NewRedisBroker(client, config.Realtime.Channel, logger), nil

	case "memory":
		return live.NewMemoryBroker(0), nil

	default:
		return nil, fmt.Errorf("unknown realtime driver %q", config.Realtime.Driver)
	}
}
