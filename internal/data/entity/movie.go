package entity

// Movie is a catalog entry. It is never mutated after creation.
type Movie struct {
	BaseSimple
	Title       string `db:"title"`
	Description string `db:"description"`
	Genre       string `db:"genre"`
	PosterURL   string `db:"poster_url"`
	MediaURL    string `db:"media_url"`
}
