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

var _ repository.TemplateRepository = (*DB)(nil)

// CreateTemplate inserts a template and any tags supplied on the model,
// so a freshly created template round-trips through GetTemplateByID
// with its tag set intact.
func (db *DB) CreateTemplate(ctx context.Context, template *model.Template) error {
	template.ID = xid.New().String()

	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning template transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO templates (id, user_id, title, description, code, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		template.ID,
		template.UserID,
		template.Title,
		template.Description,
		template.Code,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating template: %w", err)
	}

	if len(template.Tags) > 0 {
		if err := replaceTags(ctx, tx, template.ID, template.Tags); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing template transaction: %w", err)
	}

	return nil
}

// GetTemplateByID retrieves a template with its tags. The owner's user
// ID rides along on the row, so the service can authorize without a
// second query.
func (db *DB) GetTemplateByID(ctx context.Context, id string) (*model.Template, error) {
	var template model.Template

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, code, created_at, updated_at
		 FROM templates
		 WHERE id = ?`,
		id,
	).Scan(
		&template.ID,
		&template.UserID,
		&template.Title,
		&template.Description,
		&template.Code,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("template", id)
		}
		return nil, fmt.Errorf("sqlite: getting template %s: %w", id, err)
	}

	tags, err := db.templateTags(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Tags = tags

	return &template, nil
}

// UpdateTemplate writes the scalar columns and, when tags is non-nil,
// replaces the tag set in the same transaction. A failed tag write
// rolls the scalar update back with it, so the row is never half
// updated. Nil tags leave the existing set untouched.
func (db *DB) UpdateTemplate(ctx context.Context, template *model.Template, tags *[]string) error {
	template.UpdatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning template transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE templates
		 SET title = ?, description = ?, code = ?, updated_at = ?
		 WHERE id = ?`,
		template.Title,
		template.Description,
		template.Code,
		template.UpdatedAt,
		template.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating template %s: %w", template.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("template", template.ID)
	}

	if tags != nil {
		if err := replaceTags(ctx, tx, template.ID, *tags); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing template transaction: %w", err)
	}

	return nil
}

// replaceTags implements the replace-on-update tag contract inside the
// caller's transaction: delete every existing tag row, then insert one
// row per element. An empty slice therefore clears the set.
func replaceTags(ctx context.Context, tx *sql.Tx, templateID string, tags []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM template_tags WHERE template_id = ?`, templateID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing tags for template %s: %w", templateID, err)
	}

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_tags (template_id, tag) VALUES (?, ?)`,
			templateID, tag,
		); err != nil {
			return fmt.Errorf("sqlite: inserting tag %q for template %s: %w", tag, templateID, err)
		}
	}

	return nil
}

// DeleteTemplate hard-deletes a template. Tag rows go with it via the
// ON DELETE CASCADE on template_tags.
func (db *DB) DeleteTemplate(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM templates WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting template %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("template", id)
	}

	return nil
}

// ListTemplatesByUser returns the compact dashboard listing of a user's
// templates, newest first.
func (db *DB) ListTemplatesByUser(ctx context.Context, userID string) ([]model.TemplateSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title
		 FROM templates
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing templates for user %s: %w", userID, err)
	}
	defer rows.Close()

	summaries := []model.TemplateSummary{}
	for rows.Next() {
		var s model.TemplateSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("sqlite: scanning template summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating template summaries: %w", err)
	}

	return summaries, nil
}

func (db *DB) templateTags(ctx context.Context, templateID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tag FROM template_tags WHERE template_id = ?`,
		templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags for template %s: %w", templateID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}

	return tags, nil
}
