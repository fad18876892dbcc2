package model

import "time"

// Template is a saved code template: a titled, described, taggable
// chunk of code owned by the user who created it.
//
// UserID is the ownership anchor — every mutation path compares it to
// the authenticated caller before touching the row.
//
// Tags are unordered and have replace-on-update semantics: an update
// that supplies a tag list drops every existing tag row and recreates
// one row per element. They are stored in their own table but exposed
// as a plain string slice on the JSON surface.
type Template struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateSummary is the compact shape listed on a user's dashboard.
type TemplateSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
