package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/scriptorium/internal/auth"
	"github.com/sakif/scriptorium/internal/service"
)

// PostHandler serves the visitor-facing blog reads and the comment
// endpoint. The visitor routes take the post ID as a query parameter;
// the comment route nests it in the path.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleFetchByID returns one visible post for the blog detail page.
// Hidden posts 404 exactly like missing ones.
//
// HTTP: GET /api/visitors/fetch-by-id?id={postId}
func (h *PostHandler) HandleFetchByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FetchByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCommentsSorted returns a post's visible comments, oldest
// first. An unknown post gets an empty list, not a 404 — the blog page
// renders it as "no comments yet".
//
// HTTP: GET /api/visitors/comments-sorted?id={postId}
func (h *PostHandler) HandleCommentsSorted(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.CommentsSorted(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type addCommentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment appends a comment to a post on behalf of the
// caller. Comments are append-only; there is no edit or delete route.
//
// HTTP: POST /api/posts/{id}/comments
// Auth: required
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, errMissingIdentity())
		return
	}

	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.posts.AddComment(r.Context(), caller.UserID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
