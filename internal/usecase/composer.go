package usecase

import (
	"context"
	"fmt"
	"sync"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/pkg/utils"

	"github.com/google/uuid"
)

// CommentDraft is the pending comment of one composer.
type CommentDraft struct {
	Text   string
	Rating int
}

func (d CommentDraft) WithText(text string) CommentDraft {
	d.Text = text
	return d
}

func (d CommentDraft) WithRating(rating int) CommentDraft {
	d.Rating = rating
	return d
}

// CommentComposer holds the draft for one movie and submits it through CommentSync.
type CommentComposer struct {
	comments *CommentSync
	movieID  uuid.UUID

	mu    sync.Mutex
	draft CommentDraft
}

func NewCommentComposer(comments *CommentSync, movieID uuid.UUID) *CommentComposer {
	return &CommentComposer{comments: comments, movieID: movieID}
}

func (c *CommentComposer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.draft.WithText(text)
}

func (c *CommentComposer) SetRating(rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.draft.WithRating(rating)
}

func (c *CommentComposer) Draft() CommentDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit posts the draft and clears it only when the write succeeded.
func (c *CommentComposer) Submit(ctx context.Context, viewer Viewer) (entity.Comment, error) {
	draft := c.Draft()

	created, err := c.comments.Post(ctx, viewer, c.movieID, draft.Text, draft.Rating)
	if err != nil {
		return entity.Comment{}, err
	}

	c.mu.Lock()
	if c.draft == draft {
		c.draft = CommentDraft{}
	}
	c.mu.Unlock()

	return created, nil
}

type MovieField string

const (
	FieldTitle       MovieField = "title"
	FieldDescription MovieField = "description"
	FieldGenre       MovieField = "genre"
	FieldPosterURL   MovieField = "poster_url"
	FieldMediaURL    MovieField = "media_url"
)

// MovieDraft is the admin form for a new catalog entry.
type MovieDraft struct {
	Title       string `validate:"required,notblank,max=200"`
	Description string `validate:"max=2000"`
	Genre       string `validate:"required,notblank,max=100"`
	PosterURL   string `validate:"omitempty,url"`
	MediaURL    string `validate:"omitempty,url"`
}

// With returns a copy of d with one field replaced.
func (d MovieDraft) With(field MovieField, value string) (MovieDraft, error) {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldGenre:
		d.Genre = value
	case FieldPosterURL:
		d.PosterURL = value
	case FieldMediaURL:
		d.MediaURL = value
	default:
		return d, rejected(fmt.Sprintf("unknown field %q", field))
	}
	return d, nil
}

// CatalogEditor holds the admin's movie draft and submits it to the catalog.
type CatalogEditor struct {
	catalog *CatalogStore

	mu    sync.Mutex
	draft MovieDraft
}

func NewCatalogEditor(catalog *CatalogStore) *CatalogEditor {
	return &CatalogEditor{catalog: catalog}
}

func (e *CatalogEditor) Set(field MovieField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.draft.With(field, value)
	if err != nil {
		return err
	}
	e.draft = next
	return nil
}

func (e *CatalogEditor) Draft() MovieDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Submit requires an admin viewer and a valid draft. The draft is reset only
// after the catalog accepted the write.
func (e *CatalogEditor) Submit(ctx context.Context, viewer Viewer) (entity.Movie, error) {
	if !viewer.IsAdmin() {
		return entity.Movie{}, ErrForbidden
	}

	draft := e.Draft()
	if errs := utils.ValidateStruct(draft); len(errs) > 0 {
		return entity.Movie{}, rejected(utils.FormatValidationErrors(errs))
	}

	created, err := e.catalog.Insert(ctx, entity.Movie{
		Title:       draft.Title,
		Description: draft.Description,
		Genre:       draft.Genre,
		PosterURL:   draft.PosterURL,
		MediaURL:    draft.MediaURL,
	})
	if err != nil {
		return entity.Movie{}, err
	}

	e.mu.Lock()
	if e.draft == draft {
		e.draft = MovieDraft{}
	}
	e.mu.Unlock()

	return created, nil
}
