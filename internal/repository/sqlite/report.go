package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/scriptorium/internal/model"
	"github.com/sakif/scriptorium/internal/repository"
)

var _ repository.ReportRepository = (*DB)(nil)

func (db *DB) CreateReport(ctx context.Context, report *model.Report) error {
	report.ID = xid.New().String()
	report.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reports (id, content_id, content_type, reason, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.ContentID,
		report.ContentType,
		report.Reason,
		report.UserID,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating report: %w", err)
	}

	return nil
}

// reportsFor loads the reports filed against one content item, in
// filing order. Shared by the reported-post and reported-comment
// listings.
func (db *DB) reportsFor(ctx context.Context, contentType, contentID string) ([]model.Report, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content_id, content_type, reason, user_id, created_at
		 FROM reports
		 WHERE content_type = ? AND content_id = ?
		 ORDER BY created_at ASC`,
		contentType, contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reports for %s %s: %w", contentType, contentID, err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		var r model.Report
		if err := rows.Scan(
			&r.ID, &r.ContentID, &r.ContentType, &r.Reason, &r.UserID, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning report: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reports: %w", err)
	}

	return reports, nil
}
