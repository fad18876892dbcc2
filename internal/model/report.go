package model

import "time"

// Content type discriminators for reports and moderation actions.
const (
	ContentTypePost    = "post"
	ContentTypeComment = "comment"
)

// Report is a user's complaint about a post or comment. ContentType
// tells the moderation endpoints which table ContentID points into.
type Report struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"contentId"`
	ContentType string    `json:"contentType"`
	Reason      string    `json:"reason"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
