package live

import (
	"context"
	"sync"
	"sync/atomic"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader reads the full current comment list of a movie.
type Loader func(ctx context.Context, movieID uuid.UUID) ([]entity.Comment, error)

type subscriber struct {
	onChange func([]entity.Comment)
	active   atomic.Bool
}

type topic struct {
	// deliver serialises load-and-deliver rounds so later rounds always
	// carry newer state
	deliver sync.Mutex
	subs    map[uint64]*subscriber
}

// Hub turns broker notifications into full-list deliveries for every
// subscriber of the changed movie.
type Hub struct {
	broker Broker
	load   Loader
	log    *zap.Logger

	mu     sync.Mutex
	topics map[uuid.UUID]*topic
	nextID uint64
}

func NewHub(broker Broker, load Loader, log *zap.Logger) *Hub {
	return &Hub{
		broker: broker,
		load:   load,
		log:    log.With(zap.String("component", "live-hub")),
		topics: make(map[uuid.UUID]*topic),
	}
}

// Subscribe registers onChange for movieID and delivers the current list
// before returning.
func (h *Hub) Subscribe(ctx context.Context, movieID uuid.UUID, onChange func([]entity.Comment)) (func(), error) {
	sub := &subscriber{onChange: onChange}
	sub.active.Store(true)

	h.mu.Lock()
	t, ok := h.topics[movieID]
	if !ok {
		t = &topic{subs: make(map[uint64]*subscriber)}
		h.topics[movieID] = t
	}
	id := h.nextID
	h.nextID++
	t.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.active.Store(false)
			h.mu.Lock()
			defer h.mu.Unlock()
			if cur, ok := h.topics[movieID]; ok {
				delete(cur.subs, id)
				if len(cur.subs) == 0 {
					delete(h.topics, movieID)
				}
			}
		})
	}

	t.deliver.Lock()
	defer t.deliver.Unlock()

	list, err := h.load(ctx, movieID)
	if err != nil {
		unsubscribe()
		return nil, err
	}
	sub.onChange(list)

	return unsubscribe, nil
}

// Notify announces a change of movieID to every listening instance.
func (h *Hub) Notify(ctx context.Context, movieID uuid.UUID) error {
	return h.broker.Publish(ctx, movieID)
}

// Run consumes the broker until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	return h.broker.Listen(ctx, func(movieID uuid.UUID) {
		h.refresh(ctx, movieID)
	})
}

// Subscribers counts active subscriptions for movieID.
func (h *Hub) Subscribers(movieID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[movieID]; ok {
		return len(t.subs)
	}
	return 0
}

func (h *Hub) refresh(ctx context.Context, movieID uuid.UUID) {
	h.mu.Lock()
	t, ok := h.topics[movieID]
	h.mu.Unlock()
	if !ok {
		return
	}

	t.deliver.Lock()
	defer t.deliver.Unlock()

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(t.subs))
	for _, s := range t.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	list, err := h.load(ctx, movieID)
	if err != nil {
		// Subscribers keep their last list
		h.log.Warn("Reload after change failed",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return
	}

	for _, s := range subs {
		if s.active.Load() {
			s.onChange(cloneComments(list))
		}
	}
}

func cloneComments(in []entity.Comment) []entity.Comment {
	out := make([]entity.Comment, len(in))
	copy(out, in)
	return out
}
