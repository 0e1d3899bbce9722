package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"movie-galaxy/internal/dto/request"
	"movie-galaxy/internal/dto/response"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"github.com/gin-contrib/sse"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamKeepAlive = 25 * time.Second

type CommentHandler struct {
	catalog  *usecase.CatalogStore
	comments *usecase.CommentSync
	now      func() time.Time
	log      *zap.Logger
}

func NewCommentHandler(catalog *usecase.CatalogStore, comments *usecase.CommentSync, now func() time.Time, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		catalog:  catalog,
		comments: comments,
		now:      now,
		log:      log.With(zap.String("handler", "comment")),
	}
}

// GetComments handles GET /api/movies/{id}/comments
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieParam(w, r)
	if !ok {
		return
	}

	list := h.comments.Comments(movieID)
	utils.ResponseSuccess(w, "success", response.CommentsToResponse(list, h.now()))
}

// GetCommentStats handles GET /api/movies/{id}/comment-stats
func (h *CommentHandler) GetCommentStats(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieParam(w, r)
	if !ok {
		return
	}

	utils.ResponseSuccess(w, "success", response.StatsToResponse(h.comments.Stats(movieID)))
}

// CreateComment handles POST /api/movies/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieParam(w, r)
	if !ok {
		return
	}

	var req request.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	composer := usecase.NewCommentComposer(h.comments, movieID)
	composer.SetText(req.Text)
	composer.SetRating(req.Rating)

	comment, err := composer.Submit(r.Context(), viewerFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "post comment")
		return
	}

	utils.ResponseCreated(w, "Comment posted", response.CommentToResponse(comment, h.now()))
}

// DeleteComment handles DELETE /api/admin/movies/{id}/comments/{commentId}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	movieID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid movie ID", nil)
		return
	}
	commentID, ok := uuidParam(r, "commentId")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid comment ID", nil)
		return
	}

	if err := h.comments.Remove(r.Context(), viewerFrom(r), movieID, commentID); err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted", nil)
}

// StreamComments handles GET /api/movies/{id}/comments/stream. Every change
// pushes the full list as a "comments" event; a session change of the
// caller is pushed as a "session" event.
func (h *CommentHandler) StreamComments(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieParam(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming unsupported")
		return
	}

	updates, cancel := h.comments.Watch(movieID)
	defer cancel()

	sessions := make(chan usecase.SessionSnapshot, 1)
	if gate, ok := usecase.GateFromContext(r.Context()); ok {
		stop := gate.Watch()
		defer stop()
		gate.OnChange(func(s usecase.SessionSnapshot) {
			for {
				select {
				case sessions <- s:
					return
				default:
				}
				select {
				case <-sessions:
				default:
				}
			}
		})
	}

	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	h.log.Debug("Comment stream opened", zap.String("movie_id", movieID.String()))

	for {
		var event sse.Event

		select {
		case <-r.Context().Done():
			h.log.Debug("Comment stream closed", zap.String("movie_id", movieID.String()))
			return

		case list := <-updates:
			event = sse.Event{Event: "comments", Data: response.CommentsToResponse(list, h.now())}

		case snapshot := <-sessions:
			event = sse.Event{Event: "session", Data: response.SessionToResponse(snapshot)}

		case <-keepAlive.C:
			event = sse.Event{Event: "ping", Data: h.now().UTC().Format(time.RFC3339)}
		}

		if err := sse.Encode(w, event); err != nil {
			h.log.Warn("Comment stream write failed", zap.Error(err))
			return
		}
		flusher.Flush()
	}
}

// movieParam resolves {id} to a catalog movie and makes sure its comments
// are mirrored. Movies whose subscription failed at startup are retried here.
func (h *CommentHandler) movieParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	movieID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid movie ID", nil)
		return uuid.Nil, false
	}

	if _, found := h.catalog.Find(movieID); !found {
		utils.ResponseNotFound(w, "Movie not found")
		return uuid.Nil, false
	}

	if !h.comments.Attached(movieID) {
		if err := h.comments.Attach(r.Context(), movieID, nil); err != nil {
			handleServiceError(w, h.log, err, "load comments")
			return uuid.Nil, false
		}
	}

	return movieID, true
}
