package request

import "movie-galaxy/internal/usecase"

type MovieRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	PosterURL   string `json:"poster_url"`
	MediaURL    string `json:"media_url"`
}

// Fields lists the form fields in editor order.
func (r MovieRequest) Fields() []MovieFieldValue {
	return []MovieFieldValue{
		{Field: usecase.FieldTitle, Value: r.Title},
		{Field: usecase.FieldDescription, Value: r.Description},
		{Field: usecase.FieldGenre, Value: r.Genre},
		{Field: usecase.FieldPosterURL, Value: r.PosterURL},
		{Field: usecase.FieldMediaURL, Value: r.MediaURL},
	}
}

type MovieFieldValue struct {
	Field usecase.MovieField
	Value string
}

type MovieFilter struct {
	Search string `validate:"max=200"`
	Genre  string `validate:"max=100"`
}
