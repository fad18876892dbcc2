package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/model"
	"github.com/sakif/scriptorium/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, content, upvotes, downvotes, hidden, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Content,
		post.Upvotes,
		post.Downvotes,
		post.Hidden,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a post regardless of its hidden flag. Used by
// moderation and by the comment handler to verify the parent exists.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	return db.getPost(ctx, id, false)
}

// GetVisiblePostByID retrieves a post for visitor reads: a hidden post
// is reported as not found, same as a missing one.
func (db *DB) GetVisiblePostByID(ctx context.Context, id string) (*model.Post, error) {
	return db.getPost(ctx, id, true)
}

func (db *DB) getPost(ctx context.Context, id string, visibleOnly bool) (*model.Post, error) {
	query := `SELECT id, user_id, title, content, upvotes, downvotes, hidden, created_at, updated_at
		 FROM posts
		 WHERE id = ?`
	if visibleOnly {
		query += ` AND hidden = 0`
	}

	var post model.Post
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.Upvotes,
		&post.Downvotes,
		&post.Hidden,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &post, nil
}

// HidePost sets hidden=true on a post. The UPDATE has no `hidden = 0`
// guard, so hiding an already-hidden post affects one row and succeeds
// again — the operation is idempotent by construction.
func (db *DB) HidePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET hidden = 1, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: hiding post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// ListReportedPosts returns every post that has at least one report,
// newest post first, with the reports attached in filing order.
func (db *DB) ListReportedPosts(ctx context.Context) ([]model.ReportedPost, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.title, p.hidden
		 FROM posts p
		 JOIN reports r ON r.content_id = p.id AND r.content_type = 'post'
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reported posts: %w", err)
	}
	defer rows.Close()

	reported := []model.ReportedPost{}
	for rows.Next() {
		var rp model.ReportedPost
		if err := rows.Scan(&rp.ID, &rp.Title, &rp.Hidden); err != nil {
			return nil, fmt.Errorf("sqlite: scanning reported post: %w", err)
		}
		reported = append(reported, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reported posts: %w", err)
	}

	for i := range reported {
		reports, err := db.reportsFor(ctx, model.ContentTypePost, reported[i].ID)
		if err != nil {
			return nil, err
		}
		reported[i].Reports = reports
	}

	return reported, nil
}
