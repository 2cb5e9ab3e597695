package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// ReviewReader reads the review subsystem's table. Orders never write
// it; the only use is annotating listed lines as already reviewed.
type ReviewReader struct {
	db *sql.DB
}

func NewReviewReader(db *sql.DB) *ReviewReader {
	return &ReviewReader{db: db}
}

func (r *ReviewReader) ReviewedLineIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_line_id
		FROM reviews
		WHERE user_id = $1`, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var lineID uuid.UUID
		if err := rows.Scan(&lineID); err != nil {
			return nil, err
		}
		out[lineID.String()] = struct{}{}
	}
	return out, rows.Err()
}
