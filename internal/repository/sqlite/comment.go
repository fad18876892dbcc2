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

var _ repository.CommentRepository = (*DB)(nil)

func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, hidden, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.Hidden,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	return nil
}

func (db *DB) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, post_id, user_id, content, hidden, created_at
		 FROM comments
		 WHERE id = ?`,
		id,
	).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Content,
		&comment.Hidden,
		&comment.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return &comment, nil
}

// ListVisibleComments returns a post's visible comments in creation
// order, oldest first — the order the blog page displays them in.
// An unknown post ID yields an empty list, not an error.
func (db *DB) ListVisibleComments(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, post_id, user_id, content, hidden, created_at
		 FROM comments
		 WHERE post_id = ? AND hidden = 0
		 ORDER BY created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.Hidden, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// HideComment sets hidden=true. Idempotent for the same reason as
// HidePost: the UPDATE matches the row whether or not it is already
// hidden.
func (db *DB) HideComment(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET hidden = 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: hiding comment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", id)
	}

	return nil
}

// ListReportedComments mirrors ListReportedPosts for comments.
func (db *DB) ListReportedComments(ctx context.Context) ([]model.ReportedComment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.content, c.hidden
		 FROM comments c
		 JOIN reports r ON r.content_id = c.id AND r.content_type = 'comment'
		 ORDER BY c.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reported comments: %w", err)
	}
	defer rows.Close()

	reported := []model.ReportedComment{}
	for rows.Next() {
		var rc model.ReportedComment
		if err := rows.Scan(&rc.ID, &rc.Content, &rc.Hidden); err != nil {
			return nil, fmt.Errorf("sqlite: scanning reported comment: %w", err)
		}
		reported = append(reported, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reported comments: %w", err)
	}

	for i := range reported {
		reports, err := db.reportsFor(ctx, model.ContentTypeComment, reported[i].ID)
		if err != nil {
			return nil, err
		}
		reported[i].Reports = reports
	}

	return reported, nil
}
