package request

// CommentRequest carries the composer draft. Text and rating rules are
// enforced by the composer so a rejected draft never reaches storage.
type CommentRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}
