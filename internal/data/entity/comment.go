package entity

import (
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Comment belongs to exactly one movie. Rating 0 means unset and is never stored.
type Comment struct {
	BaseSimple
	MovieID     uuid.UUID `db:"movie_id"`
	AuthorEmail string    `db:"author_email"`
	Body        string    `db:"body"`
	Rating      int       `db:"rating"`
}

// ValidRating reports whether r can be persisted.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
