package model

import "time"

// Comment belongs to a post. Comments are append-only: created by any
// authenticated user, never edited, listed ascending by creation time.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReportedComment is a comment bundled with the reports filed against
// it, as shown on the admin moderation page.
type ReportedComment struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Hidden  bool     `json:"hidden"`
	Reports []Report `json:"reports"`
}
