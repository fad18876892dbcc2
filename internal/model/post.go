package model

import "time"

// Post is a blog post. Hidden posts stay in the database but are
// excluded from all visitor-facing reads; only an admin can set the
// flag, and there is no unhide path.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReportedPost is a post bundled with the reports filed against it,
// as shown on the admin moderation page.
type ReportedPost struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Hidden  bool     `json:"hidden"`
	Reports []Report `json:"reports"`
}
