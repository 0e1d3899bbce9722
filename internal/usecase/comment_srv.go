package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentStats aggregates the ratings of one movie's mirrored comments.
type CommentStats struct {
	AverageRating float64
	Count         int
}

type attachment struct {
	unsubscribe Unsubscribe
}

// CommentSync mirrors the comment subcollection of every attached movie.
// Each subscription callback only ever replaces the entry of its own movie.
type CommentSync struct {
	backend CommentBackend
	now     func() time.Time
	log     *zap.Logger

	mu       sync.RWMutex
	comments map[uuid.UUID][]entity.Comment
	attached map[uuid.UUID]*attachment
	watchers map[uuid.UUID]map[int]chan []entity.Comment
	nextID   int
}

func NewCommentSync(backend CommentBackend, now func() time.Time, log *zap.Logger) *CommentSync {
	if now == nil {
		now = time.Now
	}
	return &CommentSync{
		backend:  backend,
		now:      now,
		log:      log.With(zap.String("service", "comment")),
		comments: make(map[uuid.UUID][]entity.Comment),
		attached: make(map[uuid.UUID]*attachment),
		watchers: make(map[uuid.UUID]map[int]chan []entity.Comment),
	}
}

// Attach opens the standing subscription for movieID. Attaching a movie that
// is already attached does nothing. onUpdate may be nil.
func (s *CommentSync) Attach(ctx context.Context, movieID uuid.UUID, onUpdate func([]entity.Comment)) error {
	s.mu.Lock()
	if _, ok := s.attached[movieID]; ok {
		s.mu.Unlock()
		return nil
	}
	a := &attachment{}
	s.attached[movieID] = a
	s.mu.Unlock()

	// The backend delivers the initial list synchronously, so no lock is held here
	unsubscribe, err := s.backend.Subscribe(ctx, movieID, func(list []entity.Comment) {
		s.apply(movieID, a, list, onUpdate)
	})
	if err != nil {
		s.mu.Lock()
		if s.attached[movieID] == a {
			delete(s.attached, movieID)
		}
		s.mu.Unlock()
		s.log.Warn("Subscribe failed", zap.Error(err), zap.String("movie_id", movieID.String()))
		return unavailable("subscribe comments", err)
	}

	s.mu.Lock()
	if s.attached[movieID] != a {
		// detached while subscribing
		s.mu.Unlock()
		unsubscribe()
		return nil
	}
	a.unsubscribe = unsubscribe
	s.mu.Unlock()

	s.log.Debug("Comments attached", zap.String("movie_id", movieID.String()))
	return nil
}

// apply drops deliveries from a subscription that is no longer the movie's
// current attachment.
func (s *CommentSync) apply(movieID uuid.UUID, a *attachment, list []entity.Comment, onUpdate func([]entity.Comment)) {
	ordered := sortComments(list)

	s.mu.Lock()
	if s.attached[movieID] != a {
		s.mu.Unlock()
		return
	}
	s.comments[movieID] = ordered
	chans := make([]chan []entity.Comment, 0, len(s.watchers[movieID]))
	for _, ch := range s.watchers[movieID] {
		chans = append(chans, ch)
	}
	s.mu.Unlock()

	for _, ch := range chans {
		offerLatest(ch, cloneComments(ordered))
	}

	if onUpdate != nil {
		onUpdate(cloneComments(ordered))
	}
}

// Attached reports whether movieID has a live subscription.
func (s *CommentSync) Attached(movieID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.attached[movieID]
	return ok
}

// Comments returns the mirrored list, oldest first.
func (s *CommentSync) Comments(movieID uuid.UUID) []entity.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneComments(s.comments[movieID])
}

func (s *CommentSync) Stats(movieID uuid.UUID) CommentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.comments[movieID]
	if len(list) == 0 {
		return CommentStats{}
	}

	total := 0
	for _, c := range list {
		total += c.Rating
	}
	return CommentStats{
		AverageRating: float64(total) / float64(len(list)),
		Count:         len(list),
	}
}

// Post writes a new comment on behalf of viewer. It is refused without a
// backend call when the viewer is anonymous, the text is blank or the rating
// is unset or out of range. The mirror is updated by the subscription.
func (s *CommentSync) Post(ctx context.Context, viewer Viewer, movieID uuid.UUID, text string, rating int) (entity.Comment, error) {
	identity, ok := viewer.Identity()
	if !ok {
		return entity.Comment{}, ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return entity.Comment{}, rejected("comment text is empty")
	}
	if !entity.ValidRating(rating) {
		return entity.Comment{}, rejected("rating must be between 1 and 5")
	}

	comment := entity.Comment{
		BaseSimple: entity.BaseSimple{
			CreatedAt: s.now().UTC(),
		},
		MovieID:     movieID,
		AuthorEmail: identity.Email,
		Body:        text,
		Rating:      rating,
	}

	created, err := s.backend.CreateComment(ctx, comment)
	if err != nil {
		s.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
			zap.String("author", identity.Email),
		)
		return entity.Comment{}, unavailable("create comment", err)
	}

	s.log.Info("Comment posted",
		zap.String("comment_id", created.ID.String()),
		zap.String("movie_id", movieID.String()),
		zap.Int("rating", rating),
	)
	return created, nil
}

// Remove deletes one comment. Only admins may do this.
func (s *CommentSync) Remove(ctx context.Context, viewer Viewer, movieID, commentID uuid.UUID) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	if err := s.backend.DeleteComment(ctx, movieID, commentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
			zap.String("comment_id", commentID.String()),
		)
		return unavailable("delete comment", err)
	}

	s.log.Info("Comment removed",
		zap.String("comment_id", commentID.String()),
		zap.String("movie_id", movieID.String()),
	)
	return nil
}

// Watch streams the mirrored list of movieID. Slow readers only ever see the
// most recent list. The current list, when present, is sent first.
func (s *CommentSync) Watch(movieID uuid.UUID) (<-chan []entity.Comment, func()) {
	ch := make(chan []entity.Comment, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.watchers[movieID] == nil {
		s.watchers[movieID] = make(map[int]chan []entity.Comment)
	}
	s.watchers[movieID][id] = ch
	current, ok := s.comments[movieID]
	if ok {
		ch <- cloneComments(current)
	}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers[movieID], id)
			if len(s.watchers[movieID]) == 0 {
				delete(s.watchers, movieID)
			}
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Detach releases the subscription of one movie and forgets its comments.
func (s *CommentSync) Detach(movieID uuid.UUID) {
	s.mu.Lock()
	a, ok := s.attached[movieID]
	delete(s.attached, movieID)
	delete(s.comments, movieID)
	s.mu.Unlock()

	if ok && a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Retain detaches every movie not listed in keep.
func (s *CommentSync) Retain(keep []uuid.UUID) {
	wanted := make(map[uuid.UUID]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	var stale []uuid.UUID
	for id := range s.attached {
		if _, ok := wanted[id]; !ok {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range stale {
		s.Detach(id)
	}
}

// Teardown releases every subscription. The mirror is emptied.
func (s *CommentSync) Teardown() {
	s.mu.Lock()
	attached := s.attached
	s.attached = make(map[uuid.UUID]*attachment)
	s.comments = make(map[uuid.UUID][]entity.Comment)
	s.mu.Unlock()

	for _, a := range attached {
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
	}

	s.log.Info("Comment subscriptions released", zap.Int("count", len(attached)))
}

// sortComments orders by creation time, then identifier.
func sortComments(in []entity.Comment) []entity.Comment {
	out := cloneComments(in)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func cloneComments(in []entity.Comment) []entity.Comment {
	out := make([]entity.Comment, len(in))
	copy(out, in)
	return out
}

// offerLatest replaces any unread value in ch with v.
func offerLatest(ch chan []entity.Comment, v []entity.Comment) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
