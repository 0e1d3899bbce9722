package usecase

import (
	"context"
	"testing"
	"time"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestCommentSync() (*CommentSync, *fakeCommentBackend) {
	backend := newFakeCommentBackend()
	return NewCommentSync(backend, func() time.Time { return fixedNow }, zap.NewNop()), backend
}

func TestPostRejectedWithoutRemoteCall(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()

	tests := []struct {
		name    string
		viewer  Viewer
		text    string
		rating  int
		wantErr error
	}{
		{name: "anonymous", viewer: anonymous, text: "Great", rating: 4, wantErr: ErrUnauthenticated},
		{name: "empty text", viewer: member, text: "", rating: 4, wantErr: ErrValidationRejected},
		{name: "blank text", viewer: member, text: "   \n\t", rating: 4, wantErr: ErrValidationRejected},
		{name: "unset rating", viewer: member, text: "Great", rating: 0, wantErr: ErrValidationRejected},
		{name: "rating too high", viewer: member, text: "Great", rating: 6, wantErr: ErrValidationRejected},
		{name: "negative rating", viewer: member, text: "Great", rating: -1, wantErr: ErrValidationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cs.Post(context.Background(), tt.viewer, movieID, tt.text, tt.rating)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	created, _, _, _ := backend.counts()
	assert.Zero(t, created)
}

func TestPostStampsAuthorAndTime(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()

	created, err := cs.Post(context.Background(), member, movieID, "Great", 4)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, movieID, created.MovieID)
	assert.Equal(t, "member@example.com", created.AuthorEmail)
	assert.Equal(t, "Great", created.Body)
	assert.Equal(t, 4, created.Rating)
	assert.True(t, fixedNow.Equal(created.CreatedAt))

	n, _, _, _ := backend.counts()
	assert.Equal(t, 1, n)
}

func TestPostBackendFailure(t *testing.T) {
	cs, backend := newTestCommentSync()
	backend.createErr = errRemote

	_, err := cs.Post(context.Background(), member, uuid.New(), "Great", 4)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, err, errRemote)
	assert.NotErrorIs(t, err, ErrValidationRejected)
}

func TestRemoveRequiresAdmin(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID, commentID := uuid.New(), uuid.New()

	err := cs.Remove(context.Background(), member, movieID, commentID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, ErrValidationRejected)

	_, deleted, _, _ := backend.counts()
	assert.Zero(t, deleted)

	require.NoError(t, cs.Remove(context.Background(), admin, movieID, commentID))
	_, deleted, _, _ = backend.counts()
	assert.Equal(t, 1, deleted)
}

func TestRemoveErrors(t *testing.T) {
	cs, backend := newTestCommentSync()

	backend.deleteErr = ErrNotFound
	err := cs.Remove(context.Background(), admin, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	backend.deleteErr = errRemote
	err = cs.Remove(context.Background(), admin, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestUpdateReplacesOnlyOwnMovie(t *testing.T) {
	cs, backend := newTestCommentSync()
	first, second := uuid.New(), uuid.New()
	backend.initial[second] = comments(second, 5)

	require.NoError(t, cs.Attach(context.Background(), first, nil))
	require.NoError(t, cs.Attach(context.Background(), second, nil))

	backend.push(first, comments(first, 1, 2, 3))
	assert.Len(t, cs.Comments(first), 3)

	backend.push(first, comments(first, 4, 5))
	assert.Len(t, cs.Comments(first), 2)
	assert.Len(t, cs.Comments(second), 1)
	assert.Equal(t, 5, cs.Comments(second)[0].Rating)
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()
	require.NoError(t, cs.Attach(context.Background(), movieID, nil))

	list := comments(movieID, 1, 2, 3)
	backend.push(movieID, []entity.Comment{list[2], list[0], list[1]})

	got := cs.Comments(movieID)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Rating, got[1].Rating, got[2].Rating})
}

func TestAttachIsIdempotent(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()

	var updates int
	require.NoError(t, cs.Attach(context.Background(), movieID, func([]entity.Comment) { updates++ }))
	require.NoError(t, cs.Attach(context.Background(), movieID, nil))

	_, _, subscribes, _ := backend.counts()
	assert.Equal(t, 1, subscribes)
	assert.Equal(t, 1, updates)
	assert.True(t, cs.Attached(movieID))
}

func TestAttachFailure(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()
	backend.subscribeErr[movieID] = errRemote

	err := cs.Attach(context.Background(), movieID, nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.False(t, cs.Attached(movieID))
	assert.Empty(t, cs.Comments(movieID))
}

func TestStats(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()
	require.NoError(t, cs.Attach(context.Background(), movieID, nil))

	assert.Equal(t, CommentStats{}, cs.Stats(movieID))

	backend.push(movieID, comments(movieID, 5, 4, 3))
	stats := cs.Stats(movieID)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.0001)
}

func TestDetachAndTeardown(t *testing.T) {
	cs, backend := newTestCommentSync()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		backend.initial[id] = comments(id, 3)
		require.NoError(t, cs.Attach(context.Background(), id, nil))
	}
	assert.Equal(t, 3, backend.active())

	cs.Detach(ids[0])
	assert.False(t, cs.Attached(ids[0]))
	assert.Empty(t, cs.Comments(ids[0]))
	assert.Equal(t, 2, backend.active())

	cs.Retain([]uuid.UUID{ids[1]})
	assert.Equal(t, 1, backend.active())
	assert.True(t, cs.Attached(ids[1]))

	cs.Teardown()
	assert.Zero(t, backend.active())
	assert.Empty(t, cs.Comments(ids[1]))

	_, _, _, unsubscribes := backend.counts()
	assert.Equal(t, 3, unsubscribes)

	// late deliveries after teardown are dropped
	backend.push(ids[1], comments(ids[1], 1))
	assert.Empty(t, cs.Comments(ids[1]))
}

func TestReattachIgnoresOldSubscription(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()
	backend.initial[movieID] = comments(movieID, 3)

	require.NoError(t, cs.Attach(context.Background(), movieID, nil))
	old := backend.callback(movieID)
	require.NotNil(t, old)

	cs.Detach(movieID)
	require.NoError(t, cs.Attach(context.Background(), movieID, nil))

	old(comments(movieID, 1, 1))

	list := cs.Comments(movieID)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Rating)

	backend.push(movieID, comments(movieID, 5, 4))
	assert.Len(t, cs.Comments(movieID), 2)
}

func TestWatchReceivesLatestList(t *testing.T) {
	cs, backend := newTestCommentSync()
	movieID := uuid.New()
	backend.initial[movieID] = comments(movieID, 2)
	require.NoError(t, cs.Attach(context.Background(), movieID, nil))

	ch, cancel := cs.Watch(movieID)
	defer cancel()

	assert.Len(t, <-ch, 1)

	backend.push(movieID, comments(movieID, 1, 2))
	backend.push(movieID, comments(movieID, 1, 2, 3))
	assert.Len(t, <-ch, 3)

	cancel()
	backend.push(movieID, comments(movieID, 1))
	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery after cancel: %d comments", len(got))
	default:
	}
}
