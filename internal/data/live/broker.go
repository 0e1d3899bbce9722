// Package live carries comment change notifications between writers and the
// subscription hub. A notification only names the movie whose comments
// changed; subscribers re-read the full list.
package live

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrBrokerClosed = errors.New("broker closed")

type Broker interface {
	Publish(ctx context.Context, movieID uuid.UUID) error
	// Listen calls handle for every notification until ctx is done or the
	// broker is closed.
	Listen(ctx context.Context, handle func(movieID uuid.UUID)) error
	Close() error
}
